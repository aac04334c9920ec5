// Package history serves the read side of the workout log: paginated
// session history, previous-exercise lookup, and weekly summaries. It only
// ever sees finished sessions, whose totals are frozen.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/workout"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is the storage surface the history queries depend on.
type Store interface {
	ListFinished(ctx context.Context, userID, limit, offset int) ([]models.Session, int, error)
	CompletedBetween(ctx context.Context, userID int, start, end time.Time) ([]models.Session, error)
	PreviousExercise(ctx context.Context, userID int, name string) (*models.Exercise, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Service answers history queries.
type Service struct {
	db  Store
	now func() time.Time
}

// NewService creates a history Service backed by the given store.
func NewService(db Store) *Service {
	return &Service{db: db, now: time.Now}
}

// Page is one page of finished sessions plus the total count.
type Page struct {
	Items      []models.Session `json:"items"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// ListHistory returns completed and abandoned sessions ordered by completion
// time descending. Pages are 1-based; a zero page size falls back to the
// default.
func (s *Service) ListHistory(ctx context.Context, userID, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.db.ListFinished(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Session{}
	}
	return &Page{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// SetTemplate is one recorded set, returned read-only for prefilling a new
// session.
type SetTemplate struct {
	WeightKg    float64 `json:"weight_kg"`
	Repetitions int     `json:"repetitions"`
	RPE         *int    `json:"rpe,omitempty"`
}

// PreviousExercise is the most recent completed occurrence of an exercise.
type PreviousExercise struct {
	ExerciseName string        `json:"exercise_name"`
	Sets         []SetTemplate `json:"sets"`
}

// LookupPreviousExercise finds the latest completed occurrence of the named
// exercise (case-insensitive) and returns its recorded sets.
func (s *Service) LookupPreviousExercise(ctx context.Context, userID int, name string) (*PreviousExercise, error) {
	if name == "" {
		return nil, fmt.Errorf("exercise name is required: %w", workout.ErrValidation)
	}

	exercise, err := s.db.PreviousExercise(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, fmt.Errorf("no completed occurrence of %q: %w", name, workout.ErrNotFound)
	}

	prev := &PreviousExercise{ExerciseName: exercise.Name, Sets: []SetTemplate{}}
	for _, set := range exercise.Sets {
		if !set.Completed() {
			continue
		}
		prev.Sets = append(prev.Sets, SetTemplate{
			WeightKg:    *set.ActualWeightKg,
			Repetitions: *set.ActualReps,
			RPE:         set.RPE,
		})
	}
	return prev, nil
}

// WeekStatus summarizes the current calendar week's completed sessions.
type WeekStatus struct {
	WeekStart         time.Time        `json:"week_start"`
	WeekEnd           time.Time        `json:"week_end"`
	SessionsCompleted int              `json:"sessions_completed"`
	TotalTonnage      float64          `json:"total_tonnage"`
	Sessions          []models.Session `json:"sessions"`
}

// Week returns the sessions completed in the current calendar week (Monday
// through Sunday, server-local time). Derived from the completed-session
// range query; nothing is stored.
func (s *Service) Week(ctx context.Context, userID int) (*WeekStatus, error) {
	start, end := weekBounds(s.now())

	sessions, err := s.db.CompletedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	status := &WeekStatus{
		WeekStart:         start,
		WeekEnd:           end,
		SessionsCompleted: len(sessions),
		Sessions:          sessions,
	}
	for _, sess := range sessions {
		status.TotalTonnage += sess.TotalTonnage
	}
	return status, nil
}

// SummaryPeriod is one week of aggregated training, derived from frozen
// session totals.
type SummaryPeriod struct {
	WeekStart     time.Time `json:"week_start"`
	Sessions      int       `json:"sessions"`
	Tonnage       float64   `json:"tonnage"`
	Volume        int       `json:"volume"`
	SetsCompleted int       `json:"sets_completed"`
}

// TrainingSummary buckets the user's completed sessions in [start, end) by
// calendar week, oldest first.
func (s *Service) TrainingSummary(ctx context.Context, userID int, start, end time.Time) ([]SummaryPeriod, error) {
	sessions, err := s.db.CompletedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	byWeek := make(map[time.Time]*SummaryPeriod)
	for _, sess := range sessions {
		if sess.CompletedAt == nil {
			continue
		}
		weekStart, _ := weekBounds(*sess.CompletedAt)
		period, ok := byWeek[weekStart]
		if !ok {
			period = &SummaryPeriod{WeekStart: weekStart}
			byWeek[weekStart] = period
		}
		period.Sessions++
		period.Tonnage += sess.TotalTonnage
		period.Volume += sess.TotalVolume
		period.SetsCompleted += sess.TotalSetsCompleted
	}

	result := make([]SummaryPeriod, 0, len(byWeek))
	for _, period := range byWeek {
		result = append(result, *period)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WeekStart.Before(result[j].WeekStart)
	})
	return result, nil
}

// weekBounds returns [Monday 00:00, next Monday 00:00) for the week
// containing t, in t's location.
func weekBounds(t time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := day.AddDate(0, 0, -daysSinceMonday)
	return start, start.AddDate(0, 0, 7)
}
