package mission_test

import (
	"context"
	"testing"
	"time"

	"github.com/jgates/waypoint/internal/domain/mission"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/repository"
	"github.com/jgates/waypoint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticSignal struct {
	sig signal.ModuleSignal
}

func (s *staticSignal) Fetch(context.Context, string, time.Time, *time.Location) signal.ModuleSignal {
	return s.sig
}

func TestEnsureWeekMissions_SnapshotReturnedUnchanged(t *testing.T) {
	ctx := context.Background()
	stored := []mission.Mission{{ID: "m1", Key: "branding.define_identity", WeekStart: "2026-02-02"}}

	repo := &mocks.MissionRepository{}
	repo.On("ListWeek", ctx, "u1", "2026-02-02").Return(stored, nil)

	svc := mission.NewService(&staticSignal{}, repo, nil)
	got, err := svc.EnsureWeekMissions(ctx, "u1", "2026-02-02", time.UTC)
	require.NoError(t, err)
	require.Equal(t, stored, got)
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureWeekMissions_GeneratesOnFirstVisit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MissionRepository{}

	var persisted []*mission.Mission
	repo.On("ListWeek", ctx, "u1", "2026-02-02").Return([]mission.Mission{}, nil).Once()
	repo.On("CreateBatch", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(2).([]*mission.Mission)
	}).Return(nil).Once()
	repo.On("ListWeek", ctx, "u1", "2026-02-02").Return([]mission.Mission{}, nil)

	svc := mission.NewService(&staticSignal{}, repo, nil)
	_, err := svc.EnsureWeekMissions(ctx, "u1", "2026-02-02", time.UTC)
	require.NoError(t, err)

	require.NotEmpty(t, persisted)
	require.LessOrEqual(t, len(persisted), mission.MaxMissions)
	for _, m := range persisted {
		require.NotEmpty(t, m.ID)
		require.Equal(t, "u1", m.UserID)
		require.Equal(t, "2026-02-02", m.WeekStart)
		require.NotEmpty(t, m.Key)
		require.False(t, m.IsDone)
	}
}

func TestEnsureWeekMissions_RejectsNonMondayAnchor(t *testing.T) {
	svc := mission.NewService(&staticSignal{}, &mocks.MissionRepository{}, nil)
	_, err := svc.EnsureWeekMissions(context.Background(), "u1", "2026-02-03", time.UTC)
	require.ErrorIs(t, err, mission.ErrInvalidWeek)
}

func TestCompleteMission_MarksDoneOnce(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MissionRepository{}
	repo.On("Get", ctx, "u1", "m1").Return(&mission.Mission{ID: "m1", UserID: "u1"}, nil)
	repo.On("SetDone", ctx, "u1", "m1", true, mock.Anything).Return(nil)

	svc := mission.NewService(&staticSignal{}, repo, nil)
	m, err := svc.CompleteMission(ctx, "u1", "m1")
	require.NoError(t, err)
	require.True(t, m.IsDone)
	require.NotNil(t, m.CompletedAt)
}

func TestCompleteMission_AlreadyDoneIsNoop(t *testing.T) {
	ctx := context.Background()
	done := time.Now()
	repo := &mocks.MissionRepository{}
	repo.On("Get", ctx, "u1", "m1").Return(&mission.Mission{ID: "m1", IsDone: true, CompletedAt: &done}, nil)

	svc := mission.NewService(&staticSignal{}, repo, nil)
	m, err := svc.CompleteMission(ctx, "u1", "m1")
	require.NoError(t, err)
	require.True(t, m.IsDone)
	repo.AssertNotCalled(t, "SetDone", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteMission_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MissionRepository{}
	repo.On("Get", ctx, "u1", "missing").Return((*mission.Mission)(nil), repository.ErrNotFound)

	svc := mission.NewService(&staticSignal{}, repo, nil)
	_, err := svc.CompleteMission(ctx, "u1", "missing")
	require.ErrorIs(t, err, mission.ErrMissionNotFound)
}

func TestListHistory_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MissionRepository{}
	repo.On("History", ctx, "u1", "2026-02-02", 8).Return([]mission.WeekSummary{}, nil)

	svc := mission.NewService(&staticSignal{}, repo, nil)

	_, err := svc.ListHistory(ctx, "u1", "2026-02-02", 0)
	require.NoError(t, err)
	_, err = svc.ListHistory(ctx, "u1", "2026-02-02", 50)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "History", 2)
}
