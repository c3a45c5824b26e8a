package mocks

import (
	"context"
	"time"

	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/jgates/waypoint/internal/domain/mission"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// SignalSource is a mock for signal.Source.
type SignalSource struct {
	mock.Mock
}

func (m *SignalSource) BrandProfile(ctx context.Context, userID string) (*signal.BrandProfile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*signal.BrandProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignalSource) Channels(ctx context.Context, userID string) ([]signal.Channel, error) {
	args := m.Called(ctx, userID)
	if chans, ok := args.Get(0).([]signal.Channel); ok {
		return chans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignalSource) ContentCounts(ctx context.Context, userID, monthStart string) (signal.ContentCounts, error) {
	args := m.Called(ctx, userID, monthStart)
	return args.Get(0).(signal.ContentCounts), args.Error(1)
}

func (m *SignalSource) EngagementCount(ctx context.Context, userID, weekStart string) (int, error) {
	args := m.Called(ctx, userID, weekStart)
	return args.Int(0), args.Error(1)
}

func (m *SignalSource) SiteSettings(ctx context.Context, userID string) (*signal.SiteSettings, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*signal.SiteSettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// MissionRepository is a mock for mission.Repository.
type MissionRepository struct {
	mock.Mock
}

func (m *MissionRepository) CreateBatch(ctx context.Context, userID string, missions []*mission.Mission) error {
	args := m.Called(ctx, userID, missions)
	return args.Error(0)
}

func (m *MissionRepository) ListWeek(ctx context.Context, userID, weekStart string) ([]mission.Mission, error) {
	args := m.Called(ctx, userID, weekStart)
	if list, ok := args.Get(0).([]mission.Mission); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MissionRepository) Get(ctx context.Context, userID, id string) (*mission.Mission, error) {
	args := m.Called(ctx, userID, id)
	if ms, ok := args.Get(0).(*mission.Mission); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MissionRepository) SetDone(ctx context.Context, userID, id string, done bool, completedAt *time.Time) error {
	args := m.Called(ctx, userID, id, done, completedAt)
	return args.Error(0)
}

func (m *MissionRepository) History(ctx context.Context, userID, beforeWeekStart string, limit int) ([]mission.WeekSummary, error) {
	args := m.Called(ctx, userID, beforeWeekStart, limit)
	if list, ok := args.Get(0).([]mission.WeekSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CadenceRepository is a mock for cadence.Repository.
type CadenceRepository struct {
	mock.Mock
}

func (m *CadenceRepository) ListItems(ctx context.Context, userID string) ([]cadence.Item, error) {
	args := m.Called(ctx, userID)
	if items, ok := args.Get(0).([]cadence.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CadenceRepository) CreateItems(ctx context.Context, userID string, items []*cadence.Item) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *CadenceRepository) GetLog(ctx context.Context, userID, day string) (*cadence.Log, error) {
	args := m.Called(ctx, userID, day)
	if log, ok := args.Get(0).(*cadence.Log); ok {
		return log, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CadenceRepository) UpsertLog(ctx context.Context, userID string, log *cadence.Log) error {
	args := m.Called(ctx, userID, log)
	return args.Error(0)
}

func (m *CadenceRepository) GetStreak(ctx context.Context, userID string) (*cadence.StreakState, error) {
	args := m.Called(ctx, userID)
	if st, ok := args.Get(0).(*cadence.StreakState); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CadenceRepository) UpsertStreak(ctx context.Context, userID string, state *cadence.StreakState) error {
	args := m.Called(ctx, userID, state)
	return args.Error(0)
}

func (m *CadenceRepository) ListRoutineTasks(ctx context.Context, userID string) ([]cadence.RoutineTask, error) {
	args := m.Called(ctx, userID)
	if tasks, ok := args.Get(0).([]cadence.RoutineTask); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CadenceRepository) CreateRoutineTasks(ctx context.Context, userID string, tasks []*cadence.RoutineTask) error {
	args := m.Called(ctx, userID, tasks)
	return args.Error(0)
}

func (m *CadenceRepository) AddCompletion(ctx context.Context, userID, taskID, periodStart string) error {
	args := m.Called(ctx, userID, taskID, periodStart)
	return args.Error(0)
}

func (m *CadenceRepository) CompletedPeriods(ctx context.Context, userID, taskID string) (map[string]bool, error) {
	args := m.Called(ctx, userID, taskID)
	if periods, ok := args.Get(0).(map[string]bool); ok {
		return periods, args.Error(1)
	}
	return nil, args.Error(1)
}

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) ResolveAPIKey(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}
