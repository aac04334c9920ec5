package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

const setColumns = `s.id, s.exercise_id, s.position, s.planned_weight_kg, s.planned_reps,
	 s.actual_weight_kg, s.actual_reps, s.rpe, s.completed_at, s.completed_seq`

// InsertSet appends a planned set to an exercise, assigning the next
// position. Returns the assigned position.
func (db *DB) InsertSet(ctx context.Context, set *models.Set) (int, error) {
	var position int
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO sets (id, exercise_id, position, planned_weight_kg, planned_reps)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM sets WHERE exercise_id = $2),
		         $3, $4)
		 RETURNING position`,
		set.ID, set.ExerciseID, set.PlannedWeightKg, set.PlannedReps).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("inserting set: %w", err)
	}
	return position, nil
}

// CompleteSet records actual performance on a set as one atomic statement:
// the owning session's completion counter is bumped and the set's actual
// fields, completion time, and sequence number are written together. The
// statement matches only when the session is in progress, belongs to the
// user, and contains the set; otherwise (nil, nil) is returned and the
// caller distinguishes missing from conflicting state.
func (db *DB) CompleteSet(ctx context.Context, sessionID, setID uuid.UUID, userID int, weightKg float64, reps int, rpe *int, completedAt time.Time) (*models.Set, error) {
	row := db.Pool.QueryRow(ctx,
		`WITH seq AS (
		     UPDATE sessions SET completion_seq = completion_seq + 1
		     WHERE id = $1 AND user_id = $2 AND status = 'in_progress'
		     RETURNING completion_seq
		 )
		 UPDATE sets s
		 SET actual_weight_kg = $4, actual_reps = $5, rpe = $6,
		     completed_at = $7, completed_seq = seq.completion_seq
		 FROM exercises e, seq
		 WHERE s.id = $3 AND s.exercise_id = e.id AND e.session_id = $1
		 RETURNING `+setColumns,
		sessionID, userID, setID, weightKg, reps, rpe, completedAt)

	var set models.Set
	err := row.Scan(&set.ID, &set.ExerciseID, &set.Position,
		&set.PlannedWeightKg, &set.PlannedReps,
		&set.ActualWeightKg, &set.ActualReps, &set.RPE,
		&set.CompletedAt, &set.CompletedSeq)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("completing set: %w", err)
	}
	return &set, nil
}

// UndoLastSet reverts the most recently completed set in a session, chosen
// by the highest completion sequence number. Returns (nil, nil) when the
// session is missing, foreign, not in progress, or has no completed set.
func (db *DB) UndoLastSet(ctx context.Context, sessionID uuid.UUID, userID int) (*models.Set, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE sets s
		 SET actual_weight_kg = NULL, actual_reps = NULL, rpe = NULL,
		     completed_at = NULL, completed_seq = NULL
		 FROM exercises e, sessions sess
		 WHERE s.exercise_id = e.id AND e.session_id = $1
		   AND sess.id = $1 AND sess.user_id = $2 AND sess.status = 'in_progress'
		   AND s.completed_seq = (
		       SELECT MAX(s2.completed_seq) FROM sets s2
		       JOIN exercises e2 ON s2.exercise_id = e2.id
		       WHERE e2.session_id = $1
		   )
		 RETURNING `+setColumns,
		sessionID, userID)

	var set models.Set
	err := row.Scan(&set.ID, &set.ExerciseID, &set.Position,
		&set.PlannedWeightKg, &set.PlannedReps,
		&set.ActualWeightKg, &set.ActualReps, &set.RPE,
		&set.CompletedAt, &set.CompletedSeq)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("undoing last set: %w", err)
	}
	return &set, nil
}
