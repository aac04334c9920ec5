package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// Valid reports whether s is a known status value.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Terminal reports whether s is a final state.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// MuscleGroup is an informational tag on an exercise. No logic depends on it.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleArms      MuscleGroup = "arms"
	MuscleLegs      MuscleGroup = "legs"
	MuscleCore      MuscleGroup = "core"
	MuscleFullBody  MuscleGroup = "full_body"
	MuscleOther     MuscleGroup = "other"
)

// Valid reports whether m is a known muscle group.
func (m MuscleGroup) Valid() bool {
	switch m {
	case MuscleChest, MuscleBack, MuscleShoulders, MuscleArms,
		MuscleLegs, MuscleCore, MuscleFullBody, MuscleOther:
		return true
	}
	return false
}

// Session is one logged workout, the root aggregate. Totals are zero while
// in progress, frozen at completion, and stay zero for abandoned sessions.
type Session struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             int           `json:"user_id"`
	Title              string        `json:"title"`
	Status             SessionStatus `json:"status"`
	StartedAt          time.Time     `json:"started_at"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	Notes              *string       `json:"notes,omitempty"`
	TotalTonnage       float64       `json:"total_tonnage"`
	TotalVolume        int           `json:"total_volume"`
	TotalSetsCompleted int           `json:"total_sets_completed"`
	Exercises          []Exercise    `json:"exercises"`
}

// Exercise is one movement within a session, in insertion order.
type Exercise struct {
	ID          uuid.UUID   `json:"id"`
	SessionID   uuid.UUID   `json:"session_id"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	Position    int         `json:"position"`
	Sets        []Set       `json:"sets"`
}

// Set is one planned or performed set. The actual fields, CompletedAt, and
// CompletedSeq are populated together by set completion and cleared together
// by undo.
type Set struct {
	ID              uuid.UUID  `json:"id"`
	ExerciseID      uuid.UUID  `json:"exercise_id"`
	Position        int        `json:"position"`
	PlannedWeightKg *float64   `json:"planned_weight_kg,omitempty"`
	PlannedReps     *int       `json:"planned_reps,omitempty"`
	ActualWeightKg  *float64   `json:"actual_weight_kg,omitempty"`
	ActualReps      *int       `json:"actual_reps,omitempty"`
	RPE             *int       `json:"rpe,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletedSeq    *int64     `json:"-"`
}

// Completed reports whether the set has recorded actual performance.
func (s *Set) Completed() bool {
	return s.CompletedAt != nil
}
