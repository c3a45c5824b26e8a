package cadence

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jgates/waypoint/internal/week"
)

// Default checklist and routine definitions, seeded on a user's first visit.
var defaultItemLabels = []string{
	"Post or engage on your main channel",
	"Reply to comments and messages",
	"Capture one content idea",
}

var defaultRoutines = []struct {
	title   string
	cadence Cadence
}{
	{"Publish one piece of content", CadenceWeekly},
	{"Review what resonated this week", CadenceWeekly},
	{"Audit your brand profile", CadenceMonthly},
}

// Service owns the daily checklist state machine and the routine tracker.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new cadence service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// DayState is the checklist view for one day.
type DayState struct {
	Items  []Item      `json:"items"`
	Log    Log         `json:"log"`
	Streak StreakState `json:"streak"`
}

// Day returns the checklist, log, and streak state for the given day,
// seeding the default checklist on first use.
func (s *Service) Day(ctx context.Context, userID, day string) (*DayState, error) {
	if _, err := week.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}

	items, err := s.ensureItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	log, err := s.repo.GetLog(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("loading day log: %w", err)
	}
	if log == nil {
		log = &Log{UserID: userID, Day: day, ItemsTotal: len(items)}
	}

	streak, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading streak: %w", err)
	}
	if streak == nil {
		streak = &StreakState{UserID: userID}
	}

	return &DayState{Items: items, Log: *log, Streak: *streak}, nil
}

// ToggleItem flips one checklist item on the given day's log, recomputes
// whether the day maintains the streak, and advances the streak state
// exactly once. Toggling repeatedly within the same day never
// double-increments the streak.
func (s *Service) ToggleItem(ctx context.Context, userID, itemID, day string) (*DayState, error) {
	if _, err := week.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}

	items, err := s.ensureItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(items, func(it Item) bool { return it.ID == itemID }) {
		return nil, ErrItemNotFound
	}

	log, err := s.repo.GetLog(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("loading day log: %w", err)
	}
	if log == nil {
		log = &Log{UserID: userID, Day: day}
	}
	wasMaintained := log.StreakMaintained

	if i := slices.Index(log.CheckedIDs, itemID); i >= 0 {
		log.CheckedIDs = slices.Delete(log.CheckedIDs, i, i+1)
	} else {
		log.CheckedIDs = append(log.CheckedIDs, itemID)
	}
	log.ItemsTotal = len(items)
	log.StreakMaintained = Maintained(len(log.CheckedIDs), log.ItemsTotal)

	if err := s.repo.UpsertLog(ctx, userID, log); err != nil {
		return nil, fmt.Errorf("saving day log: %w", err)
	}

	prev, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading streak: %w", err)
	}

	// The streak only moves when the day's maintained status flips. A toggle
	// that leaves the day on the same side of the threshold must not touch
	// the state: stamping an unmaintained interim write would sever the
	// continuity with yesterday before the day has a chance to cross.
	if log.StreakMaintained == wasMaintained {
		state := StreakState{UserID: userID}
		if prev != nil {
			state = *prev
		}
		return &DayState{Items: items, Log: *log, Streak: state}, nil
	}

	next := NextStreak(prev, userID, day, log.StreakMaintained)
	if err := s.repo.UpsertStreak(ctx, userID, &next); err != nil {
		return nil, fmt.Errorf("saving streak: %w", err)
	}

	return &DayState{Items: items, Log: *log, Streak: next}, nil
}

// Routines returns every routine task with its derived streak and
// current-period completion, seeding the defaults on first use.
func (s *Service) Routines(ctx context.Context, userID string, loc *time.Location) ([]RoutineStatus, error) {
	tasks, err := s.ensureRoutines(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]RoutineStatus, 0, len(tasks))
	for _, task := range tasks {
		status, err := s.routineStatus(ctx, userID, task, loc)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// CompleteRoutine marks the task done for the current week or month bucket.
// Re-marking within the same bucket is a no-op.
func (s *Service) CompleteRoutine(ctx context.Context, userID, taskID string, loc *time.Location) (*RoutineStatus, error) {
	tasks, err := s.ensureRoutines(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(tasks, func(t RoutineTask) bool { return t.ID == taskID })
	if idx < 0 {
		return nil, ErrTaskNotFound
	}
	task := tasks[idx]

	period := s.currentAnchor(task.Cadence, loc)
	if err := s.repo.AddCompletion(ctx, userID, taskID, period); err != nil {
		return nil, fmt.Errorf("recording completion: %w", err)
	}

	status, err := s.routineStatus(ctx, userID, task, loc)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Service) routineStatus(ctx context.Context, userID string, task RoutineTask, loc *time.Location) (RoutineStatus, error) {
	completed, err := s.repo.CompletedPeriods(ctx, userID, task.ID)
	if err != nil {
		return RoutineStatus{}, fmt.Errorf("loading completions: %w", err)
	}

	current := s.currentAnchor(task.Cadence, loc)
	step := week.PrevWeek
	if task.Cadence == CadenceMonthly {
		step = week.PrevMonth
	}

	return RoutineStatus{
		Task:          task,
		Streak:        PeriodStreak(completed, current, step),
		DoneThisCycle: completed[current],
	}, nil
}

func (s *Service) currentAnchor(c Cadence, loc *time.Location) string {
	if c == CadenceMonthly {
		return week.MonthAnchor(s.now(), loc)
	}
	return week.Anchor(s.now(), loc)
}

func (s *Service) ensureItems(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}
	if len(items) > 0 {
		return items, nil
	}

	seed := make([]*Item, len(defaultItemLabels))
	for i, label := range defaultItemLabels {
		seed[i] = &Item{
			ID:        uuid.NewString(),
			UserID:    userID,
			Label:     label,
			Position:  i,
			CreatedAt: s.now(),
		}
	}
	if err := s.repo.CreateItems(ctx, userID, seed); err != nil {
		return nil, fmt.Errorf("seeding checklist items: %w", err)
	}
	s.logger.Info("seeded default checklist", "user_id", userID, "count", len(seed))
	return s.repo.ListItems(ctx, userID)
}

func (s *Service) ensureRoutines(ctx context.Context, userID string) ([]RoutineTask, error) {
	tasks, err := s.repo.ListRoutineTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing routine tasks: %w", err)
	}
	if len(tasks) > 0 {
		return tasks, nil
	}

	seed := make([]*RoutineTask, len(defaultRoutines))
	for i, d := range defaultRoutines {
		seed[i] = &RoutineTask{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     d.title,
			Cadence:   d.cadence,
			CreatedAt: s.now(),
		}
	}
	if err := s.repo.CreateRoutineTasks(ctx, userID, seed); err != nil {
		return nil, fmt.Errorf("seeding routine tasks: %w", err)
	}
	return s.repo.ListRoutineTasks(ctx, userID)
}
