package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironlog/internal/models"
)

const sessionColumns = `id, user_id, title, status, started_at, completed_at, notes,
	 total_tonnage, total_volume, total_sets_completed`

// InsertSession inserts a new in-progress session. The insert is conditional
// on the partial unique index over in-progress sessions: if the user already
// has one, nothing is inserted and false is returned.
func (db *DB) InsertSession(ctx context.Context, s *models.Session) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, title, status, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) WHERE status = 'in_progress' DO NOTHING`,
		s.ID, s.UserID, s.Title, s.Status, s.StartedAt)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetSession retrieves a session with its exercises and sets, in insertion
// order. Returns (nil, nil) when no session matches the id and user.
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID, userID int) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID)
	return db.scanSessionDetail(ctx, row)
}

// GetActiveSession retrieves the user's in-progress session with exercises
// and sets, or (nil, nil) when there is none.
func (db *DB) GetActiveSession(ctx context.Context, userID int) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 AND status = 'in_progress'`,
		userID)
	return db.scanSessionDetail(ctx, row)
}

// LatestCompletedSession retrieves the user's most recently completed session
// with exercises and sets, or (nil, nil) when the user has none.
func (db *DB) LatestCompletedSession(ctx context.Context, userID int) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND status = 'completed'
		 ORDER BY completed_at DESC LIMIT 1`,
		userID)
	return db.scanSessionDetail(ctx, row)
}

// SessionState returns the status of a session owned by the user, or "" when
// no such session exists.
func (db *DB) SessionState(ctx context.Context, sessionID uuid.UUID, userID int) (models.SessionStatus, error) {
	var status models.SessionStatus
	err := db.Pool.QueryRow(ctx,
		`SELECT status FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID).Scan(&status)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying session state: %w", err)
	}
	return status, nil
}

// FinalizeSession freezes a session: totals, notes, completion time, and the
// completed status, guarded by status = 'in_progress'. Returns false when the
// session is missing, foreign, or not in progress.
func (db *DB) FinalizeSession(ctx context.Context, sessionID uuid.UUID, userID int, notes *string, tonnage float64, volume, setsCompleted int, completedAt time.Time) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE sessions
		 SET status = 'completed', completed_at = $3, notes = $4,
		     total_tonnage = $5, total_volume = $6, total_sets_completed = $7
		 WHERE id = $1 AND user_id = $2 AND status = 'in_progress'`,
		sessionID, userID, completedAt, notes, tonnage, volume, setsCompleted)
	if err != nil {
		return false, fmt.Errorf("finalizing session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AbandonSession marks a session abandoned, leaving totals at their zero
// defaults. Returns false when the session is missing, foreign, or not in
// progress.
func (db *DB) AbandonSession(ctx context.Context, sessionID uuid.UUID, userID int, completedAt time.Time) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE sessions
		 SET status = 'abandoned', completed_at = $3
		 WHERE id = $1 AND user_id = $2 AND status = 'in_progress'`,
		sessionID, userID, completedAt)
	if err != nil {
		return false, fmt.Errorf("abandoning session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) scanSessionDetail(ctx context.Context, row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Status, &s.StartedAt, &s.CompletedAt,
		&s.Notes, &s.TotalTonnage, &s.TotalVolume, &s.TotalSetsCompleted)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	exercises, err := db.sessionExercises(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Exercises = exercises
	return &s, nil
}

// sessionExercises loads a session's exercises and their sets in position
// order.
func (db *DB) sessionExercises(ctx context.Context, sessionID uuid.UUID) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, name, muscle_group, position
		 FROM exercises WHERE session_id = $1 ORDER BY position ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.MuscleGroup, &e.Position); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e.Sets = []models.Set{}
		index[e.ID] = len(exercises)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return []models.Exercise{}, nil
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.exercise_id, s.position, s.planned_weight_kg, s.planned_reps,
		        s.actual_weight_kg, s.actual_reps, s.rpe, s.completed_at, s.completed_seq
		 FROM sets s
		 JOIN exercises e ON s.exercise_id = e.id
		 WHERE e.session_id = $1
		 ORDER BY e.position ASC, s.position ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set models.Set
		if err := setRows.Scan(&set.ID, &set.ExerciseID, &set.Position,
			&set.PlannedWeightKg, &set.PlannedReps,
			&set.ActualWeightKg, &set.ActualReps, &set.RPE,
			&set.CompletedAt, &set.CompletedSeq); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		i, ok := index[set.ExerciseID]
		if !ok {
			continue
		}
		exercises[i].Sets = append(exercises[i].Sets, set)
	}
	return exercises, setRows.Err()
}
