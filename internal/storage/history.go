package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// ListFinished retrieves completed and abandoned sessions ordered by
// completed_at descending, without nested exercises, plus the total count
// for pagination.
func (db *DB) ListFinished(ctx context.Context, userID, limit, offset int) ([]models.Session, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions
		 WHERE user_id = $1 AND status IN ('completed', 'abandoned')`,
		userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting finished sessions: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND status IN ('completed', 'abandoned')
		 ORDER BY completed_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying finished sessions: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Status, &s.StartedAt,
			&s.CompletedAt, &s.Notes, &s.TotalTonnage, &s.TotalVolume, &s.TotalSetsCompleted); err != nil {
			return nil, 0, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

// CompletedBetween retrieves completed sessions whose completion time falls
// in [start, end), most recent first.
func (db *DB) CompletedBetween(ctx context.Context, userID int, start, end time.Time) ([]models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND status = 'completed'
		   AND completed_at >= $2 AND completed_at < $3
		 ORDER BY completed_at DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying completed sessions: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Status, &s.StartedAt,
			&s.CompletedAt, &s.Notes, &s.TotalTonnage, &s.TotalVolume, &s.TotalSetsCompleted); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// PreviousExercise finds the most recent occurrence of an exercise by name
// (case-insensitive) across the user's completed sessions and returns it
// with its sets. Returns (nil, nil) when the exercise never appeared in a
// completed session.
func (db *DB) PreviousExercise(ctx context.Context, userID int, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT e.id, e.session_id, e.name, e.muscle_group, e.position
		 FROM exercises e
		 JOIN sessions s ON e.session_id = s.id
		 WHERE s.user_id = $1 AND s.status = 'completed' AND LOWER(e.name) = LOWER($2)
		 ORDER BY s.completed_at DESC, e.position ASC
		 LIMIT 1`,
		userID, name)

	var e models.Exercise
	err := row.Scan(&e.ID, &e.SessionID, &e.Name, &e.MuscleGroup, &e.Position)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying previous exercise: %w", err)
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+` FROM sets s
		 WHERE s.exercise_id = $1
		 ORDER BY s.position ASC`,
		e.ID)
	if err != nil {
		return nil, fmt.Errorf("querying previous exercise sets: %w", err)
	}
	defer setRows.Close()

	e.Sets = []models.Set{}
	for setRows.Next() {
		var set models.Set
		if err := setRows.Scan(&set.ID, &set.ExerciseID, &set.Position,
			&set.PlannedWeightKg, &set.PlannedReps,
			&set.ActualWeightKg, &set.ActualReps, &set.RPE,
			&set.CompletedAt, &set.CompletedSeq); err != nil {
			return nil, fmt.Errorf("scanning previous exercise set: %w", err)
		}
		e.Sets = append(e.Sets, set)
	}
	return &e, setRows.Err()
}
