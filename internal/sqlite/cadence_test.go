package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/stretchr/testify/require"
)

func seedItems(t *testing.T, repo *CadenceRepository, userID string) []*cadence.Item {
	t.Helper()
	items := []*cadence.Item{
		{ID: "i1", UserID: userID, Label: "post", Position: 0, CreatedAt: time.Now().UTC()},
		{ID: "i2", UserID: userID, Label: "reply", Position: 1, CreatedAt: time.Now().UTC()},
		{ID: "i3", UserID: userID, Label: "idea", Position: 2, CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.CreateItems(context.Background(), userID, items))
	return items
}

func TestCadenceRepository_Items(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCadenceRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedItems(t, repo, "u1")

	items, err := repo.ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "post", items[0].Label, "position order")
}

func TestCadenceRepository_LogRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCadenceRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")
	seedItems(t, repo, "u1")

	got, err := repo.GetLog(ctx, "u1", "2026-02-03")
	require.NoError(t, err)
	require.Nil(t, got, "no log yet")

	log := &cadence.Log{
		UserID:           "u1",
		Day:              "2026-02-03",
		CheckedIDs:       []string{"i1", "i2"},
		ItemsTotal:       3,
		StreakMaintained: true,
	}
	require.NoError(t, repo.UpsertLog(ctx, "u1", log))

	got, err = repo.GetLog(ctx, "u1", "2026-02-03")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.ElementsMatch(t, []string{"i1", "i2"}, got.CheckedIDs)
	require.Equal(t, 3, got.ItemsTotal)
	require.True(t, got.StreakMaintained)

	// Upserting again replaces the check set.
	log.CheckedIDs = []string{"i1"}
	log.StreakMaintained = false
	require.NoError(t, repo.UpsertLog(ctx, "u1", log))

	got, err = repo.GetLog(ctx, "u1", "2026-02-03")
	require.NoError(t, err)
	require.Equal(t, []string{"i1"}, got.CheckedIDs)
	require.False(t, got.StreakMaintained)
}

func TestCadenceRepository_StreakRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCadenceRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")

	got, err := repo.GetStreak(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, got, "cold start")

	st := &cadence.StreakState{UserID: "u1", Current: 2, Best: 5, LastCheckDate: "2026-02-03"}
	require.NoError(t, repo.UpsertStreak(ctx, "u1", st))

	got, err = repo.GetStreak(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Current)
	require.Equal(t, 5, got.Best)
	require.Equal(t, "2026-02-03", got.LastCheckDate)

	st.Current = 3
	require.NoError(t, repo.UpsertStreak(ctx, "u1", st))
	got, err = repo.GetStreak(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 3, got.Current)
}

func TestCadenceRepository_RoutineCompletions(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCadenceRepository(db)
	ctx := context.Background()
	seedUser(t, db, "u1")

	tasks := []*cadence.RoutineTask{
		{ID: "t1", UserID: "u1", Title: "publish", Cadence: cadence.CadenceWeekly, CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.CreateRoutineTasks(ctx, "u1", tasks))

	listed, err := repo.ListRoutineTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, cadence.CadenceWeekly, listed[0].Cadence)

	require.NoError(t, repo.AddCompletion(ctx, "u1", "t1", "2026-02-02"))
	// Marking the same period again is a no-op, not an error.
	require.NoError(t, repo.AddCompletion(ctx, "u1", "t1", "2026-02-02"))
	require.NoError(t, repo.AddCompletion(ctx, "u1", "t1", "2026-01-26"))

	periods, err := repo.CompletedPeriods(ctx, "u1", "t1")
	require.NoError(t, err)
	require.Len(t, periods, 2)
	require.True(t, periods["2026-02-02"])
	require.True(t, periods["2026-01-26"])
}
