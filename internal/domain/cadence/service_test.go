package cadence_test

import (
	"context"
	"testing"
	"time"

	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/jgates/waypoint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func threeItems() []cadence.Item {
	return []cadence.Item{
		{ID: "i1", UserID: "u1", Label: "post", Position: 0},
		{ID: "i2", UserID: "u1", Label: "reply", Position: 1},
		{ID: "i3", UserID: "u1", Label: "idea", Position: 2},
	}
}

func TestToggleItem_ChecksAndAdvancesStreak(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CadenceRepository{}
	repo.On("ListItems", ctx, "u1").Return(threeItems(), nil)
	repo.On("GetLog", ctx, "u1", "2026-02-03").Return(&cadence.Log{
		UserID: "u1", Day: "2026-02-03", CheckedIDs: []string{"i1"}, ItemsTotal: 3,
	}, nil)

	var savedLog *cadence.Log
	repo.On("UpsertLog", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		savedLog = args.Get(2).(*cadence.Log)
	}).Return(nil)
	repo.On("GetStreak", ctx, "u1").Return(&cadence.StreakState{
		UserID: "u1", Current: 1, Best: 1, LastCheckDate: "2026-02-02",
	}, nil)
	var savedStreak *cadence.StreakState
	repo.On("UpsertStreak", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		savedStreak = args.Get(2).(*cadence.StreakState)
	}).Return(nil)

	svc := cadence.NewService(repo, nil)
	state, err := svc.ToggleItem(ctx, "u1", "i2", "2026-02-03")
	require.NoError(t, err)

	// 2 of 3 checked clears the ceil(1.8)=2 threshold.
	require.ElementsMatch(t, []string{"i1", "i2"}, savedLog.CheckedIDs)
	require.True(t, savedLog.StreakMaintained)
	require.Equal(t, 2, savedStreak.Current, "yesterday's streak continues")
	require.Equal(t, 2, savedStreak.Best)
	require.Equal(t, "2026-02-03", savedStreak.LastCheckDate)
	require.Equal(t, *savedStreak, state.Streak)
}

func TestToggleItem_UncheckDropsBelowThreshold(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CadenceRepository{}
	repo.On("ListItems", ctx, "u1").Return(threeItems(), nil)
	repo.On("GetLog", ctx, "u1", "2026-02-03").Return(&cadence.Log{
		UserID: "u1", Day: "2026-02-03", CheckedIDs: []string{"i1", "i2"}, ItemsTotal: 3,
		StreakMaintained: true,
	}, nil)
	repo.On("UpsertLog", ctx, "u1", mock.Anything).Return(nil)
	repo.On("GetStreak", ctx, "u1").Return(&cadence.StreakState{
		UserID: "u1", Current: 2, Best: 2, LastCheckDate: "2026-02-03",
	}, nil)
	var savedStreak *cadence.StreakState
	repo.On("UpsertStreak", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		savedStreak = args.Get(2).(*cadence.StreakState)
	}).Return(nil)

	svc := cadence.NewService(repo, nil)
	state, err := svc.ToggleItem(ctx, "u1", "i2", "2026-02-03")
	require.NoError(t, err)

	require.False(t, state.Log.StreakMaintained)
	require.Equal(t, 0, savedStreak.Current)
	require.Equal(t, 2, savedStreak.Best, "best survives a broken day")
}

func TestToggleItem_InterimToggleKeepsContinuity(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CadenceRepository{}
	repo.On("ListItems", ctx, "u1").Return(threeItems(), nil)
	repo.On("GetLog", ctx, "u1", "2026-02-03").Return((*cadence.Log)(nil), nil)
	repo.On("UpsertLog", ctx, "u1", mock.Anything).Return(nil)
	repo.On("GetStreak", ctx, "u1").Return(&cadence.StreakState{
		UserID: "u1", Current: 1, Best: 1, LastCheckDate: "2026-02-02",
	}, nil)

	svc := cadence.NewService(repo, nil)

	// First check of a fresh day stays under the threshold: the stored
	// streak must keep pointing at yesterday so a later check can extend it.
	state, err := svc.ToggleItem(ctx, "u1", "i1", "2026-02-03")
	require.NoError(t, err)
	require.False(t, state.Log.StreakMaintained)
	require.Equal(t, 1, state.Streak.Current)
	require.Equal(t, "2026-02-02", state.Streak.LastCheckDate)
	repo.AssertNotCalled(t, "UpsertStreak", ctx, "u1", mock.Anything)
}

func TestToggleItem_UnknownItem(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CadenceRepository{}
	repo.On("ListItems", ctx, "u1").Return(threeItems(), nil)

	svc := cadence.NewService(repo, nil)
	_, err := svc.ToggleItem(ctx, "u1", "nope", "2026-02-03")
	require.ErrorIs(t, err, cadence.ErrItemNotFound)
}

func TestToggleItem_InvalidDay(t *testing.T) {
	svc := cadence.NewService(&mocks.CadenceRepository{}, nil)
	_, err := svc.ToggleItem(context.Background(), "u1", "i1", "02/03/2026")
	require.ErrorIs(t, err, cadence.ErrInvalidDay)
}

func TestDay_SeedsDefaultChecklist(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CadenceRepository{}
	repo.On("ListItems", ctx, "u1").Return([]cadence.Item{}, nil).Once()
	repo.On("CreateItems", ctx, "u1", mock.Anything).Return(nil).Once()
	repo.On("ListItems", ctx, "u1").Return(threeItems(), nil)
	repo.On("GetLog", ctx, "u1", "2026-02-03").Return((*cadence.Log)(nil), nil)
	repo.On("GetStreak", ctx, "u1").Return((*cadence.StreakState)(nil), nil)

	svc := cadence.NewService(repo, nil)
	state, err := svc.Day(ctx, "u1", "2026-02-03")
	require.NoError(t, err)
	require.Len(t, state.Items, 3)
	require.Equal(t, 0, state.Streak.Current, "cold start")
	require.Equal(t, 3, state.Log.ItemsTotal)
	repo.AssertExpectations(t)
}

func TestRoutines_DerivedStreaks(t *testing.T) {
	ctx := context.Background()
	tasks := []cadence.RoutineTask{
		{ID: "t1", UserID: "u1", Title: "publish", Cadence: cadence.CadenceWeekly},
	}

	repo := &mocks.CadenceRepository{}
	repo.On("ListRoutineTasks", ctx, "u1").Return(tasks, nil)
	repo.On("CompletedPeriods", ctx, "u1", "t1").Return(map[string]bool{
		"2026-01-26": true,
		"2026-01-19": true,
	}, nil)

	svc := cadence.NewService(repo, nil)
	svc.SetNow(func() time.Time { return time.Date(2026, 2, 4, 10, 0, 0, 0, time.UTC) })

	statuses, err := svc.Routines(ctx, "u1", time.UTC)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Equal(t, 2, statuses[0].Streak, "current week empty, count from previous")
	require.False(t, statuses[0].DoneThisCycle)
}

func TestCompleteRoutine_RecordsCurrentPeriod(t *testing.T) {
	ctx := context.Background()
	tasks := []cadence.RoutineTask{
		{ID: "t1", UserID: "u1", Title: "publish", Cadence: cadence.CadenceWeekly},
	}

	repo := &mocks.CadenceRepository{}
	repo.On("ListRoutineTasks", ctx, "u1").Return(tasks, nil)
	repo.On("AddCompletion", ctx, "u1", "t1", "2026-02-02").Return(nil)
	repo.On("CompletedPeriods", ctx, "u1", "t1").Return(map[string]bool{
		"2026-02-02": true,
		"2026-01-26": true,
	}, nil)

	svc := cadence.NewService(repo, nil)
	svc.SetNow(func() time.Time { return time.Date(2026, 2, 4, 10, 0, 0, 0, time.UTC) })

	status, err := svc.CompleteRoutine(ctx, "u1", "t1", time.UTC)
	require.NoError(t, err)
	require.Equal(t, 2, status.Streak)
	require.True(t, status.DoneThisCycle)
}

func TestCompleteRoutine_UnknownTask(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CadenceRepository{}
	repo.On("ListRoutineTasks", ctx, "u1").Return([]cadence.RoutineTask{
		{ID: "t1", UserID: "u1", Title: "publish", Cadence: cadence.CadenceWeekly},
	}, nil)

	svc := cadence.NewService(repo, nil)
	_, err := svc.CompleteRoutine(ctx, "u1", "nope", time.UTC)
	require.ErrorIs(t, err, cadence.ErrTaskNotFound)
}
