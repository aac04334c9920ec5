package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

// Store is the storage surface the session engine depends on. *storage.DB
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	InsertSession(ctx context.Context, s *models.Session) (bool, error)
	InsertExercises(ctx context.Context, exercises []models.Exercise) error
	GetSession(ctx context.Context, sessionID uuid.UUID, userID int) (*models.Session, error)
	GetActiveSession(ctx context.Context, userID int) (*models.Session, error)
	LatestCompletedSession(ctx context.Context, userID int) (*models.Session, error)
	SessionState(ctx context.Context, sessionID uuid.UUID, userID int) (models.SessionStatus, error)
	FinalizeSession(ctx context.Context, sessionID uuid.UUID, userID int, notes *string, tonnage float64, volume, setsCompleted int, completedAt time.Time) (bool, error)
	AbandonSession(ctx context.Context, sessionID uuid.UUID, userID int, completedAt time.Time) (bool, error)
	InsertExercise(ctx context.Context, e *models.Exercise) (int, error)
	InsertSet(ctx context.Context, set *models.Set) (int, error)
	ExerciseSession(ctx context.Context, exerciseID uuid.UUID, userID int) (uuid.UUID, error)
	CompleteSet(ctx context.Context, sessionID, setID uuid.UUID, userID int, weightKg float64, reps int, rpe *int, completedAt time.Time) (*models.Set, error)
	UndoLastSet(ctx context.Context, sessionID uuid.UUID, userID int) (*models.Set, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Service runs the session lifecycle: start, logging, completion, abandon.
type Service struct {
	db  Store
	log *slog.Logger
	now func() time.Time
}

// NewService creates a Service backed by the given store.
func NewService(db Store, log *slog.Logger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

// StartOptions control how a new session is created.
type StartOptions struct {
	CustomTitle string
	RepeatLast  bool
}

// Summary pairs a finalized session with its frozen totals.
type Summary struct {
	Session *models.Session `json:"session"`
	Totals  Totals          `json:"totals"`
}

// Start creates a new in-progress session. At most one session per user may
// be in progress: the insert is conditional and loses cleanly when another
// Start already won. With RepeatLast, the title and exercises (names and
// muscle groups, not sets) of the most recent completed session seed the new
// one; without prior history this degrades to an empty session.
func (s *Service) Start(ctx context.Context, userID int, opts StartOptions) (*models.Session, error) {
	now := s.now()

	var template *models.Session
	if opts.RepeatLast {
		prev, err := s.db.LatestCompletedSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		template = prev
	}

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     sessionTitle(opts.CustomTitle, template, now),
		Status:    models.StatusInProgress,
		StartedAt: now,
		Exercises: []models.Exercise{},
	}

	inserted, err := s.db.InsertSession(ctx, session)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, fmt.Errorf("a session is already in progress: %w", ErrConflict)
	}

	if template != nil {
		exercises := make([]models.Exercise, 0, len(template.Exercises))
		for i, src := range template.Exercises {
			exercises = append(exercises, models.Exercise{
				ID:          uuid.New(),
				SessionID:   session.ID,
				Name:        src.Name,
				MuscleGroup: src.MuscleGroup,
				Position:    i,
				Sets:        []models.Set{},
			})
		}
		if err := s.db.InsertExercises(ctx, exercises); err != nil {
			return nil, err
		}
		session.Exercises = exercises
	}

	s.log.Info("session started", "session_id", session.ID, "user_id", userID,
		"repeat_last", opts.RepeatLast, "exercises", len(session.Exercises))
	return session, nil
}

// Active returns the user's in-progress session, or (nil, nil) when there is
// none. Having no active session is a normal outcome, not an error.
func (s *Service) Active(ctx context.Context, userID int) (*models.Session, error) {
	return s.db.GetActiveSession(ctx, userID)
}

// Get returns a session owned by the user with exercises and sets.
func (s *Service) Get(ctx context.Context, userID int, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.db.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return session, nil
}

// Complete finalizes an in-progress session: totals are derived from the
// completed sets, frozen onto the session together with the notes, and the
// status becomes completed. Totals are never recomputed afterward.
func (s *Service) Complete(ctx context.Context, userID int, sessionID uuid.UUID, notes *string) (*Summary, error) {
	session, err := s.db.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if session.Status != models.StatusInProgress {
		return nil, fmt.Errorf("session is %s: %w", session.Status, ErrConflict)
	}

	totals := Aggregate(session.Exercises)
	now := s.now()

	ok, err := s.db.FinalizeSession(ctx, sessionID, userID, notes,
		totals.Tonnage, totals.Volume, totals.SetsCompleted, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("session is no longer in progress: %w", ErrConflict)
	}

	session.Status = models.StatusCompleted
	session.CompletedAt = &now
	session.Notes = notes
	session.TotalTonnage = totals.Tonnage
	session.TotalVolume = totals.Volume
	session.TotalSetsCompleted = totals.SetsCompleted

	s.log.Info("session completed", "session_id", sessionID, "user_id", userID,
		"tonnage", totals.Tonnage, "volume", totals.Volume, "sets", totals.SetsCompleted)
	return &Summary{Session: session, Totals: totals}, nil
}

// Abandon discards an in-progress session. Totals stay at their zero
// defaults no matter how many sets were completed; the only observable
// effect is that a new session may be started.
func (s *Service) Abandon(ctx context.Context, userID int, sessionID uuid.UUID) error {
	state, err := s.db.SessionState(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if state == "" {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if state != models.StatusInProgress {
		return fmt.Errorf("session is %s: %w", state, ErrConflict)
	}

	ok, err := s.db.AbandonSession(ctx, sessionID, userID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session is no longer in progress: %w", ErrConflict)
	}

	s.log.Info("session abandoned", "session_id", sessionID, "user_id", userID)
	return nil
}

// sessionTitle picks the new session's title: the template's when repeating
// a previous session, the caller's custom title, or a weekday default.
func sessionTitle(custom string, template *models.Session, now time.Time) string {
	if template != nil {
		return template.Title
	}
	if custom != "" {
		return custom
	}
	return now.Weekday().String() + " Workout"
}
