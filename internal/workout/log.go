package workout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// maxRPE bounds the subjective-effort scale.
const maxRPE = 10

// AddExercise appends an exercise to an in-progress session. Exercises are
// append-only: there is no reorder or delete.
func (s *Service) AddExercise(ctx context.Context, userID int, sessionID uuid.UUID, name string, muscleGroup models.MuscleGroup) (*models.Exercise, error) {
	if name == "" {
		return nil, fmt.Errorf("exercise name is required: %w", ErrValidation)
	}
	if muscleGroup == "" {
		muscleGroup = models.MuscleOther
	}
	if !muscleGroup.Valid() {
		return nil, fmt.Errorf("unknown muscle group %q: %w", muscleGroup, ErrValidation)
	}

	if err := s.requireInProgress(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	exercise := &models.Exercise{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Name:        name,
		MuscleGroup: muscleGroup,
		Sets:        []models.Set{},
	}
	position, err := s.db.InsertExercise(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.Position = position

	s.log.Info("exercise added", "session_id", sessionID, "exercise_id", exercise.ID, "name", name)
	return exercise, nil
}

// AddSet appends a planned set to an exercise of an in-progress session.
// Planned weight and reps are optional.
func (s *Service) AddSet(ctx context.Context, userID int, sessionID, exerciseID uuid.UUID, plannedWeightKg *float64, plannedReps *int) (*models.Set, error) {
	if plannedWeightKg != nil && *plannedWeightKg < 0 {
		return nil, fmt.Errorf("planned weight must not be negative: %w", ErrValidation)
	}
	if plannedReps != nil && *plannedReps < 0 {
		return nil, fmt.Errorf("planned reps must not be negative: %w", ErrValidation)
	}

	owner, err := s.db.ExerciseSession(ctx, exerciseID, userID)
	if err != nil {
		return nil, err
	}
	if owner == uuid.Nil || owner != sessionID {
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	if err := s.requireInProgress(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	set := &models.Set{
		ID:              uuid.New(),
		ExerciseID:      exerciseID,
		PlannedWeightKg: plannedWeightKg,
		PlannedReps:     plannedReps,
	}
	position, err := s.db.InsertSet(ctx, set)
	if err != nil {
		return nil, err
	}
	set.Position = position

	return set, nil
}

// SetResult is the recorded performance of one set.
type SetResult struct {
	WeightKg float64
	Reps     int
	RPE      *int
}

// CompleteSet records actual performance on a set. The actual fields, the
// completion time, and the completion sequence number are written as one
// atomic update. Completing an already-completed set overwrites the previous
// values; there is no separate edit operation.
func (s *Service) CompleteSet(ctx context.Context, userID int, sessionID, setID uuid.UUID, res SetResult) (*models.Set, error) {
	if res.WeightKg < 0 {
		return nil, fmt.Errorf("weight must not be negative: %w", ErrValidation)
	}
	if res.Reps < 0 {
		return nil, fmt.Errorf("reps must not be negative: %w", ErrValidation)
	}
	if res.RPE != nil && (*res.RPE < 1 || *res.RPE > maxRPE) {
		return nil, fmt.Errorf("rpe must be between 1 and %d: %w", maxRPE, ErrValidation)
	}

	set, err := s.db.CompleteSet(ctx, sessionID, setID, userID, res.WeightKg, res.Reps, res.RPE, s.now())
	if err != nil {
		return nil, err
	}
	if set == nil {
		// The update matched nothing. Check the session to tell a
		// state conflict from a missing set.
		if err := s.requireInProgress(ctx, sessionID, userID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}

	s.log.Info("set completed", "session_id", sessionID, "set_id", setID,
		"weight_kg", res.WeightKg, "reps", res.Reps)
	return set, nil
}

// UndoLastSet reverts the most recently completed set in the session, chosen
// by completion sequence number rather than timestamp so ties are impossible.
// One global undo per session; repeated calls walk completions backward.
func (s *Service) UndoLastSet(ctx context.Context, userID int, sessionID uuid.UUID) (*models.Set, error) {
	set, err := s.db.UndoLastSet(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		if err := s.requireInProgress(ctx, sessionID, userID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no completed set to undo: %w", ErrNotFound)
	}

	s.log.Info("set undone", "session_id", sessionID, "set_id", set.ID)
	return set, nil
}

// requireInProgress resolves the session state to the error taxonomy:
// missing or foreign sessions are ErrNotFound, finished ones ErrConflict.
func (s *Service) requireInProgress(ctx context.Context, sessionID uuid.UUID, userID int) error {
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
	return nil
}
