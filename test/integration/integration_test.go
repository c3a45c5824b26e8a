package integration_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/jgates/waypoint/internal/domain/mission"
	"github.com/jgates/waypoint/internal/domain/progress"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/sqlite"
)

type testEnv struct {
	db *sqlite.DB

	signalSvc  *signal.Service
	missionSvc *mission.Service
	cadenceSvc *cadence.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	signalSvc := signal.NewService(sqlite.NewSignalSource(db), nil)
	missionSvc := mission.NewService(signalSvc, sqlite.NewMissionRepository(db), nil)
	cadenceSvc := cadence.NewService(sqlite.NewCadenceRepository(db), nil)

	return &testEnv{
		db:         db,
		signalSvc:  signalSvc,
		missionSvc: missionSvc,
		cadenceSvc: cadenceSvc,
	}
}

func (env *testEnv) addUser(t *testing.T, userID string) {
	t.Helper()
	_, err := env.db.Exec(
		`INSERT INTO users (id, timezone, created_at) VALUES (?, ?, ?)`,
		userID, "UTC", time.Now())
	require.NoError(t, err)
}

func TestIntegration_ColdStartWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := "user-1"
	env.addUser(t, userID)
	at := time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)

	sig := env.signalSvc.Fetch(ctx, userID, at, time.UTC)
	score := progress.Score(sig)
	require.Equal(t, 0, score.Global)
	for module, v := range score.Modules {
		require.Equal(t, 0, v, "module %s", module)
	}

	missions, err := env.missionSvc.EnsureWeekMissions(ctx, userID, "2026-02-02", time.UTC)
	require.NoError(t, err)
	require.NotEmpty(t, missions)
	require.LessOrEqual(t, len(missions), 5)
	require.Equal(t, mission.PriorityUrgent, missions[0].Priority)
	require.Equal(t, signal.ModuleBranding, missions[0].Module)

	again, err := env.missionSvc.EnsureWeekMissions(ctx, userID, "2026-02-02", time.UTC)
	require.NoError(t, err)
	require.Len(t, again, len(missions))
	for i := range missions {
		require.Equal(t, missions[i].ID, again[i].ID)
	}

	done, err := env.missionSvc.CompleteMission(ctx, userID, missions[0].ID)
	require.NoError(t, err)
	require.True(t, done.IsDone)

	history, err := env.missionSvc.ListHistory(ctx, userID, "2026-02-09", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "2026-02-02", history[0].WeekStart)
	require.Equal(t, len(missions), history[0].Total)
	require.Equal(t, 1, history[0].Done)
}

func TestIntegration_ScoreReflectsCollaboratorState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := "user-1"
	env.addUser(t, userID)
	at := time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)

	_, err := env.db.Exec(`
		INSERT INTO brand_profiles (user_id, mission_statement, brand_values, tone_of_voice, audience_persona, logo_url, updated_at)
		VALUES (?, 'Ship weekly', 'Craft', 'Direct', 'Indie developers', 'https://cdn/logo.png', ?)`,
		userID, at)
	require.NoError(t, err)
	_, err = env.db.Exec(`
		INSERT INTO channel_profiles (user_id, channel, handle, bio, avatar_url, link_url)
		VALUES (?, 'mastodon', '@jo', 'Building in public', 'https://cdn/a.png', 'https://jo.dev')`,
		userID)
	require.NoError(t, err)

	sig := env.signalSvc.Fetch(ctx, userID, at, time.UTC)
	score := progress.Score(sig)
	require.Equal(t, 100, score.Modules[signal.ModuleBranding])
	require.Equal(t, 100, score.Modules[signal.ModuleProfile])
	require.Equal(t, 0, score.Modules[signal.ModuleContent])
	require.Greater(t, score.Global, 0)
	require.Less(t, score.Global, 100)

	// With branding and profile handled, the week's plan starts at content.
	missions, err := env.missionSvc.EnsureWeekMissions(ctx, userID, "2026-02-02", time.UTC)
	require.NoError(t, err)
	require.NotEmpty(t, missions)
	for _, m := range missions {
		require.NotEqual(t, signal.ModuleBranding, m.Module)
		require.NotEqual(t, signal.ModuleProfile, m.Module)
	}
	require.Equal(t, signal.ModuleContent, missions[0].Module)
}

func TestIntegration_ConcurrentFirstGeneration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	// A single connection keeps the in-memory database from returning
	// busy errors under parallel writers while the racing calls still
	// interleave their read-generate-write sequences.
	env.db.SetMaxOpenConns(1)
	userID := "user-1"
	env.addUser(t, userID)

	const racers = 8
	results := make([][]mission.Mission, racers)
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.missionSvc.EnsureWeekMissions(ctx, userID, "2026-02-02", time.UTC)
		}(i)
	}
	wg.Wait()

	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		require.NotEmpty(t, results[i])
	}

	// Every caller sees the same snapshot, down to the row IDs.
	for i := 1; i < racers; i++ {
		require.Len(t, results[i], len(results[0]))
		for j := range results[0] {
			require.Equal(t, results[0][j].ID, results[i][j].ID)
			require.Equal(t, results[0][j].Key, results[i][j].Key)
		}
	}

	// The unique key collapsed the racing inserts to one row per mission.
	var total int
	err := env.db.QueryRow(
		`SELECT COUNT(*) FROM missions WHERE user_id = ? AND week_start = ?`,
		userID, "2026-02-02").Scan(&total)
	require.NoError(t, err)
	require.Equal(t, len(results[0]), total)

	rows, err := env.db.Query(
		`SELECT mission_key FROM missions WHERE user_id = ? AND week_start = ?
		 GROUP BY mission_key HAVING COUNT(*) > 1`,
		userID, "2026-02-02")
	require.NoError(t, err)
	defer rows.Close()
	require.False(t, rows.Next(), "duplicate mission rows for one week")
	require.NoError(t, rows.Err())
}

func TestIntegration_CadenceStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := "user-1"
	env.addUser(t, userID)

	day1, err := env.cadenceSvc.Day(ctx, userID, "2026-02-03")
	require.NoError(t, err)
	require.Len(t, day1.Items, 3)

	// 2 of 3 checks clears the 60% bar.
	var state *cadence.DayState
	for _, item := range day1.Items[:2] {
		state, err = env.cadenceSvc.ToggleItem(ctx, userID, item.ID, "2026-02-03")
		require.NoError(t, err)
	}
	require.True(t, state.Log.StreakMaintained)
	require.Equal(t, 1, state.Streak.Current)

	for _, item := range day1.Items[:2] {
		state, err = env.cadenceSvc.ToggleItem(ctx, userID, item.ID, "2026-02-04")
		require.NoError(t, err)
	}
	require.True(t, state.Log.StreakMaintained)
	require.Equal(t, 2, state.Streak.Current)
	require.Equal(t, 2, state.Streak.Best)

	// A skipped day resets the running streak but not the best.
	for _, item := range day1.Items[:2] {
		state, err = env.cadenceSvc.ToggleItem(ctx, userID, item.ID, "2026-02-06")
		require.NoError(t, err)
	}
	require.Equal(t, 1, state.Streak.Current)
	require.Equal(t, 2, state.Streak.Best)
}
