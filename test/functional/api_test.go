package functional_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgates/waypoint/internal/testserver"
)

func currentWeekAnchor() string {
	now := time.Now().UTC()
	offset := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -offset).Format("2006-01-02")
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_RequiresAuth(t *testing.T) {
	ts := testserver.New(t, "secret-token", "user-1")

	resp, err := http.Get(ts.Server.URL + "/v1/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ProgressColdStart(t *testing.T) {
	ts := testserver.New(t, "secret-token", "user-1")

	resp := ts.Do(t, http.MethodGet, "/v1/progress", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		WeekStart string `json:"week_start"`
		Score     struct {
			Global  int            `json:"global"`
			Modules map[string]int `json:"modules"`
		} `json:"score"`
	}
	decode(t, resp, &body)

	require.Equal(t, currentWeekAnchor(), body.WeekStart)
	require.Equal(t, 0, body.Score.Global)
	for module, score := range body.Score.Modules {
		require.Equal(t, 0, score, "module %s", module)
	}
}

func TestAPI_MissionLifecycle(t *testing.T) {
	ts := testserver.New(t, "secret-token", "user-1")
	week := currentWeekAnchor()

	resp := ts.Do(t, http.MethodPost, "/v1/weeks/"+week+"/missions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var first struct {
		Missions []struct {
			ID       string `json:"id"`
			Key      string `json:"mission_key"`
			Priority string `json:"priority"`
			IsDone   bool   `json:"is_done"`
		} `json:"missions"`
	}
	decode(t, resp, &first)
	require.NotEmpty(t, first.Missions)
	require.LessOrEqual(t, len(first.Missions), 5)
	require.Equal(t, "urgent", first.Missions[0].Priority)

	// Re-ensuring the same week returns the identical snapshot.
	resp = ts.Do(t, http.MethodPost, "/v1/weeks/"+week+"/missions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second struct {
		Missions []struct {
			ID  string `json:"id"`
			Key string `json:"mission_key"`
		} `json:"missions"`
	}
	decode(t, resp, &second)
	require.Len(t, second.Missions, len(first.Missions))
	for i := range first.Missions {
		require.Equal(t, first.Missions[i].ID, second.Missions[i].ID)
	}

	resp = ts.Do(t, http.MethodPost, "/v1/missions/"+first.Missions[0].ID+"/complete", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var completed struct {
		ID     string `json:"id"`
		IsDone bool   `json:"is_done"`
	}
	decode(t, resp, &completed)
	require.True(t, completed.IsDone)

	resp = ts.Do(t, http.MethodGet, "/v1/weeks/"+week+"/missions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Missions []struct {
			ID     string `json:"id"`
			IsDone bool   `json:"is_done"`
		} `json:"missions"`
	}
	decode(t, resp, &listed)
	require.True(t, listed.Missions[0].IsDone)
}

func TestAPI_MissionBadWeek(t *testing.T) {
	ts := testserver.New(t, "secret-token", "user-1")

	resp := ts.Do(t, http.MethodPost, "/v1/weeks/2026-02-04/missions", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CadenceToggle(t *testing.T) {
	ts := testserver.New(t, "secret-token", "user-1")
	day := time.Now().UTC().Format("2006-01-02")

	resp := ts.Do(t, http.MethodGet, "/v1/cadence/"+day, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Log struct {
			ItemsChecked     []string `json:"items_checked"`
			StreakMaintained bool     `json:"streak_maintained"`
		} `json:"log"`
		Streak struct {
			Current int `json:"current_streak"`
		} `json:"streak"`
	}
	decode(t, resp, &state)
	require.Len(t, state.Items, 3)
	require.Empty(t, state.Log.ItemsChecked)

	// Checking 2 of 3 items crosses the 60% threshold.
	for _, item := range state.Items[:2] {
		resp = ts.Do(t, http.MethodPost,
			fmt.Sprintf("/v1/cadence/%s/items/%s/toggle", day, item.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &state)
	}
	require.True(t, state.Log.StreakMaintained)
	require.Equal(t, 1, state.Streak.Current)

	// Unchecking one drops the day back under the threshold.
	resp = ts.Do(t, http.MethodPost,
		fmt.Sprintf("/v1/cadence/%s/items/%s/toggle", day, state.Items[0].ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &state)
	require.False(t, state.Log.StreakMaintained)
	require.Equal(t, 0, state.Streak.Current)
}

func TestAPI_Routines(t *testing.T) {
	ts := testserver.New(t, "secret-token", "user-1")

	resp := ts.Do(t, http.MethodGet, "/v1/routines", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Routines []struct {
			Task struct {
				ID      string `json:"id"`
				Cadence string `json:"cadence"`
			} `json:"task"`
			Streak        int  `json:"streak"`
			DoneThisCycle bool `json:"done_this_cycle"`
		} `json:"routines"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Routines, 3)

	target := body.Routines[0]
	require.False(t, target.DoneThisCycle)

	resp = ts.Do(t, http.MethodPost, "/v1/routines/"+target.Task.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		Streak        int  `json:"streak"`
		DoneThisCycle bool `json:"done_this_cycle"`
	}
	decode(t, resp, &status)
	require.True(t, status.DoneThisCycle)
	require.Equal(t, 1, status.Streak)
}
