package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func TestActiveSession(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/active": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.Session{Title: "Push Day", Status: models.StatusInProgress})
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	session, err := c.ActiveSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session == nil || session.Title != "Push Day" {
		t.Errorf("session = %+v, want Push Day", session)
	}
}

// TestActiveSessionNone verifies a 204 maps to (nil, nil), matching the
// server's no-active-session response.
func TestActiveSessionNone(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/active": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	session, err := c.ActiveSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}
}

func TestHistoryQueryParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("page"); got != "2" {
				t.Errorf("page=%q, want 2", got)
			}
			if got := r.URL.Query().Get("page_size"); got != "10" {
				t.Errorf("page_size=%q, want 10", got)
			}
			writeTestJSON(t, w, history.Page{
				Items:      []models.Session{{Title: "Leg Day", Status: models.StatusCompleted}},
				TotalCount: 11,
				Page:       2,
				PageSize:   10,
			})
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	page, err := c.History(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 11 || len(page.Items) != 1 {
		t.Errorf("page = %+v, want 1 item / total 11", page)
	}
}

func TestPreviousExerciseNotFound(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/previous-exercise": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("name"); got != "Deadlift" {
				t.Errorf("name=%q, want Deadlift", got)
			}
			w.WriteHeader(http.StatusNotFound)
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	prev, err := c.PreviousExercise(context.Background(), "Deadlift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != nil {
		t.Errorf("prev = %+v, want nil for 404", prev)
	}
}

func TestPreviousExercise(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/previous-exercise": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, history.PreviousExercise{
				ExerciseName: "Deadlift",
				Sets:         []history.SetTemplate{{WeightKg: 140, Repetitions: 5}},
			})
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	prev, err := c.PreviousExercise(context.Background(), "deadlift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev == nil || prev.ExerciseName != "Deadlift" || len(prev.Sets) != 1 {
		t.Errorf("prev = %+v, want Deadlift with 1 set", prev)
	}
}

func TestTrainingSummaryDates(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/summary": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got != "2026-06-01" {
				t.Errorf("start=%q, want 2026-06-01", got)
			}
			if got := r.URL.Query().Get("end"); got != "2026-08-31" {
				t.Errorf("end=%q, want 2026-08-31", got)
			}
			writeTestJSON(t, w, []history.SummaryPeriod{{Sessions: 3, Tonnage: 5400}})
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	periods, err := c.TrainingSummary(context.Background(),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 1 || periods[0].Sessions != 3 {
		t.Errorf("periods = %+v, want 1 period with 3 sessions", periods)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/week": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	if _, err := c.WeekStatus(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
