package workout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// memStore is an in-memory Store mirroring the repository's semantics:
// conditional insert for session starts, atomic set completion with a
// per-session sequence counter, and ownership-scoped lookups.
type memStore struct {
	sessions map[uuid.UUID]*models.Session
	seq      map[uuid.UUID]int64
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[uuid.UUID]*models.Session),
		seq:      make(map[uuid.UUID]int64),
	}
}

func (m *memStore) InsertSession(_ context.Context, s *models.Session) (bool, error) {
	for _, existing := range m.sessions {
		if existing.UserID == s.UserID && existing.Status == models.StatusInProgress {
			return false, nil
		}
	}
	clone := *s
	clone.Exercises = []models.Exercise{}
	m.sessions[s.ID] = &clone
	return true, nil
}

func (m *memStore) InsertExercises(_ context.Context, exercises []models.Exercise) error {
	for _, e := range exercises {
		session := m.sessions[e.SessionID]
		session.Exercises = append(session.Exercises, e)
	}
	return nil
}

func (m *memStore) GetSession(_ context.Context, sessionID uuid.UUID, userID int) (*models.Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (m *memStore) GetActiveSession(_ context.Context, userID int) (*models.Session, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && s.Status == models.StatusInProgress {
			return cloneSession(s), nil
		}
	}
	return nil, nil
}

func (m *memStore) LatestCompletedSession(_ context.Context, userID int) (*models.Session, error) {
	var latest *models.Session
	for _, s := range m.sessions {
		if s.UserID != userID || s.Status != models.StatusCompleted {
			continue
		}
		if latest == nil || s.CompletedAt.After(*latest.CompletedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneSession(latest), nil
}

func (m *memStore) SessionState(_ context.Context, sessionID uuid.UUID, userID int) (models.SessionStatus, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return "", nil
	}
	return s.Status, nil
}

func (m *memStore) FinalizeSession(_ context.Context, sessionID uuid.UUID, userID int, notes *string, tonnage float64, volume, setsCompleted int, completedAt time.Time) (bool, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID || s.Status != models.StatusInProgress {
		return false, nil
	}
	s.Status = models.StatusCompleted
	s.CompletedAt = &completedAt
	s.Notes = notes
	s.TotalTonnage = tonnage
	s.TotalVolume = volume
	s.TotalSetsCompleted = setsCompleted
	return true, nil
}

func (m *memStore) AbandonSession(_ context.Context, sessionID uuid.UUID, userID int, completedAt time.Time) (bool, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID || s.Status != models.StatusInProgress {
		return false, nil
	}
	s.Status = models.StatusAbandoned
	s.CompletedAt = &completedAt
	return true, nil
}

func (m *memStore) InsertExercise(_ context.Context, e *models.Exercise) (int, error) {
	session := m.sessions[e.SessionID]
	clone := *e
	clone.Position = len(session.Exercises)
	session.Exercises = append(session.Exercises, clone)
	return clone.Position, nil
}

func (m *memStore) InsertSet(_ context.Context, set *models.Set) (int, error) {
	for _, session := range m.sessions {
		for i := range session.Exercises {
			if session.Exercises[i].ID != set.ExerciseID {
				continue
			}
			clone := *set
			clone.Position = len(session.Exercises[i].Sets)
			session.Exercises[i].Sets = append(session.Exercises[i].Sets, clone)
			return clone.Position, nil
		}
	}
	return 0, nil
}

func (m *memStore) ExerciseSession(_ context.Context, exerciseID uuid.UUID, userID int) (uuid.UUID, error) {
	for _, session := range m.sessions {
		if session.UserID != userID {
			continue
		}
		for _, e := range session.Exercises {
			if e.ID == exerciseID {
				return session.ID, nil
			}
		}
	}
	return uuid.Nil, nil
}

func (m *memStore) CompleteSet(_ context.Context, sessionID, setID uuid.UUID, userID int, weightKg float64, reps int, rpe *int, completedAt time.Time) (*models.Set, error) {
	session, ok := m.sessions[sessionID]
	if !ok || session.UserID != userID || session.Status != models.StatusInProgress {
		return nil, nil
	}
	for i := range session.Exercises {
		for j := range session.Exercises[i].Sets {
			set := &session.Exercises[i].Sets[j]
			if set.ID != setID {
				continue
			}
			m.seq[sessionID]++
			seq := m.seq[sessionID]
			w, r, t := weightKg, reps, completedAt
			set.ActualWeightKg = &w
			set.ActualReps = &r
			set.RPE = rpe
			set.CompletedAt = &t
			set.CompletedSeq = &seq
			clone := *set
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) UndoLastSet(_ context.Context, sessionID uuid.UUID, userID int) (*models.Set, error) {
	session, ok := m.sessions[sessionID]
	if !ok || session.UserID != userID || session.Status != models.StatusInProgress {
		return nil, nil
	}
	var last *models.Set
	for i := range session.Exercises {
		for j := range session.Exercises[i].Sets {
			set := &session.Exercises[i].Sets[j]
			if set.CompletedSeq == nil {
				continue
			}
			if last == nil || *set.CompletedSeq > *last.CompletedSeq {
				last = set
			}
		}
	}
	if last == nil {
		return nil, nil
	}
	last.ActualWeightKg = nil
	last.ActualReps = nil
	last.RPE = nil
	last.CompletedAt = nil
	last.CompletedSeq = nil
	clone := *last
	return &clone, nil
}

func cloneSession(s *models.Session) *models.Session {
	clone := *s
	clone.Exercises = make([]models.Exercise, len(s.Exercises))
	for i, e := range s.Exercises {
		ec := e
		ec.Sets = append([]models.Set(nil), e.Sets...)
		clone.Exercises[i] = ec
	}
	return &clone
}
