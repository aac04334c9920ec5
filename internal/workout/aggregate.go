package workout

import "github.com/meltforce/ironlog/internal/models"

// Totals are the session aggregates frozen at completion.
type Totals struct {
	Tonnage       float64 `json:"total_tonnage"`
	Volume        int     `json:"total_volume"`
	SetsCompleted int     `json:"total_sets_completed"`
}

// Aggregate derives session totals from completed sets. Sets without a
// completion time contribute nothing. Weights and reps are taken as
// recorded; there is no rounding or unit conversion.
func Aggregate(exercises []models.Exercise) Totals {
	var t Totals
	for _, e := range exercises {
		for _, s := range e.Sets {
			if !s.Completed() {
				continue
			}
			t.Tonnage += *s.ActualWeightKg * float64(*s.ActualReps)
			t.Volume += *s.ActualReps
			t.SetsCompleted++
		}
	}
	return t
}
