package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// InsertExercise appends an exercise to a session, assigning the next
// position. Returns the assigned position.
func (db *DB) InsertExercise(ctx context.Context, e *models.Exercise) (int, error) {
	var position int
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, session_id, name, muscle_group, position)
		 VALUES ($1, $2, $3, $4,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM exercises WHERE session_id = $2))
		 RETURNING position`,
		e.ID, e.SessionID, e.Name, e.MuscleGroup).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("inserting exercise: %w", err)
	}
	return position, nil
}

// InsertExercises batch-inserts template exercises with explicit positions,
// used when a new session repeats the previous one.
func (db *DB) InsertExercises(ctx context.Context, exercises []models.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}

	query := `INSERT INTO exercises (id, session_id, name, muscle_group, position) VALUES `
	args := make([]any, 0, len(exercises)*5)
	valueStrings := make([]string, 0, len(exercises))

	for i, e := range exercises {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, e.ID, e.SessionID, e.Name, e.MuscleGroup, e.Position)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting exercises: %w", err)
	}
	return nil
}

// ExerciseSession returns the session id owning an exercise, scoped to the
// user. Returns uuid.Nil when the exercise does not exist or is foreign.
func (db *DB) ExerciseSession(ctx context.Context, exerciseID uuid.UUID, userID int) (uuid.UUID, error) {
	var sessionID uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`SELECT e.session_id FROM exercises e
		 JOIN sessions s ON e.session_id = s.id
		 WHERE e.id = $1 AND s.user_id = $2`,
		exerciseID, userID).Scan(&sessionID)
	if err != nil {
		if isNoRows(err) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("querying exercise session: %w", err)
	}
	return sessionID, nil
}
