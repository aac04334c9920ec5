package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/metrics"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/workout"
)

type startSessionRequest struct {
	CustomTitle string `json:"custom_title"`
	RepeatLast  bool   `json:"repeat_last"`
}

type addExerciseRequest struct {
	Name        string             `json:"name"`
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
}

type addSetRequest struct {
	PlannedWeightKg *float64 `json:"planned_weight_kg"`
	PlannedReps     *int     `json:"planned_reps"`
}

type completeSetRequest struct {
	WeightKg    float64 `json:"weight_kg"`
	Repetitions int     `json:"repetitions"`
	RPE         *int    `json:"rpe"`
}

type completeSessionRequest struct {
	Notes *string `json:"notes"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	session, err := s.sessions.Start(r.Context(), userIDFromContext(r), workout.StartOptions{
		CustomTitle: req.CustomTitle,
		RepeatLast:  req.RepeatLast,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	metrics.SessionStarted()
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Active(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if session == nil {
		// No active session is a normal outcome, not an error.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	session, err := s.sessions.Get(r.Context(), userIDFromContext(r), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req addExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	exercise, err := s.sessions.AddExercise(r.Context(), userIDFromContext(r), sessionID, req.Name, req.MuscleGroup)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	exerciseID, ok := pathUUID(w, r, "exerciseID")
	if !ok {
		return
	}

	var req addSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	set, err := s.sessions.AddSet(r.Context(), userIDFromContext(r), sessionID, exerciseID, req.PlannedWeightKg, req.PlannedReps)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	setID, ok := pathUUID(w, r, "setID")
	if !ok {
		return
	}

	var req completeSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	set, err := s.sessions.CompleteSet(r.Context(), userIDFromContext(r), sessionID, setID, workout.SetResult{
		WeightKg: req.WeightKg,
		Reps:     req.Repetitions,
		RPE:      req.RPE,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	metrics.SetCompleted()
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleUndoLastSet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	set, err := s.sessions.UndoLastSet(r.Context(), userIDFromContext(r), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	metrics.SetUndone()
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req completeSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	summary, err := s.sessions.Complete(r.Context(), userIDFromContext(r), sessionID, req.Notes)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	metrics.SessionCompleted()
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.sessions.Abandon(r.Context(), userIDFromContext(r), sessionID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	metrics.SessionAbandoned()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)

	result, err := s.history.ListHistory(r.Context(), userIDFromContext(r), page, pageSize)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePreviousExercise(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	prev, err := s.history.LookupPreviousExercise(r.Context(), userIDFromContext(r), name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prev)
}

func (s *Server) handleWeekStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.history.Week(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summary, err := s.history.TrainingSummary(r.Context(), userIDFromContext(r), start, end)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDomainError maps the engine's error taxonomy onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, workout.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, workout.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, param string, fallback int) int {
	v := r.URL.Query().Get(param)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 12 weeks
		end = time.Now()
		start = end.AddDate(0, 0, -12*7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
