package mcp

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
)

// fakeDataSource returns canned answers for tool handler tests.
type fakeDataSource struct {
	active *models.Session
	prev   *history.PreviousExercise
}

func (f *fakeDataSource) ActiveSession(context.Context) (*models.Session, error) {
	return f.active, nil
}

func (f *fakeDataSource) History(context.Context, int, int) (*history.Page, error) {
	return &history.Page{Items: []models.Session{}, Page: 1, PageSize: 20}, nil
}

func (f *fakeDataSource) PreviousExercise(_ context.Context, name string) (*history.PreviousExercise, error) {
	if f.prev != nil && strings.EqualFold(f.prev.ExerciseName, name) {
		return f.prev, nil
	}
	return nil, nil
}

func (f *fakeDataSource) WeekStatus(context.Context) (*history.WeekStatus, error) {
	return &history.WeekStatus{SessionsCompleted: 2, TotalTonnage: 3000}, nil
}

func (f *fakeDataSource) TrainingSummary(context.Context, time.Time, time.Time) ([]history.SummaryPeriod, error) {
	return []history.SummaryPeriod{{Sessions: 1, Tonnage: 1500}}, nil
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestGetActiveSessionNoSession(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	result, err := h.getActiveSession(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := textContent(t, result); got != "no session in progress" {
		t.Errorf("text = %q, want no-session note", got)
	}
}

func TestGetActiveSession(t *testing.T) {
	h := testHandlers(&fakeDataSource{
		active: &models.Session{Title: "Push Day", Status: models.StatusInProgress},
	})

	result, err := h.getActiveSession(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("result is error: %s", textContent(t, result))
	}
	if got := textContent(t, result); !strings.Contains(got, "Push Day") {
		t.Errorf("text = %q, want session JSON mentioning Push Day", got)
	}
}

func TestGetPreviousExerciseRequiresName(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	result, err := h.getPreviousExercise(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result without name argument")
	}
}

func TestGetPreviousExercise(t *testing.T) {
	h := testHandlers(&fakeDataSource{
		prev: &history.PreviousExercise{
			ExerciseName: "Squat",
			Sets:         []history.SetTemplate{{WeightKg: 100, Repetitions: 5}},
		},
	})

	result, err := h.getPreviousExercise(context.Background(), toolRequest(map[string]any{"name": "squat"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := textContent(t, result); !strings.Contains(got, "Squat") {
		t.Errorf("text = %q, want JSON mentioning Squat", got)
	}

	// Unknown exercise comes back as a plain note, not an error.
	result, err = h.getPreviousExercise(context.Background(), toolRequest(map[string]any{"name": "Snatch"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Error("unknown exercise should not be an error result")
	}
}

func TestGetTrainingSummaryRejectsBadDates(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	result, err := h.getTrainingSummary(context.Background(), toolRequest(map[string]any{"start": "not-a-date"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for unparseable date")
	}
}

// TestDefaultTimeRange verifies the 12-week default and both accepted formats.
func TestDefaultTimeRange(t *testing.T) {
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := end.Sub(start); diff != 12*7*24*time.Hour {
		t.Errorf("default range = %v, want 12 weeks", diff)
	}

	start, end, err = defaultTimeRange("2026-06-01", "2026-08-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Month() != 6 || end.Month() != 8 {
		t.Errorf("range = %v..%v, want June..August", start, end)
	}

	start, _, err = defaultTimeRange("2026-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	if _, _, err := defaultTimeRange("yesterday", ""); err == nil {
		t.Error("expected error for unparseable start")
	}
}

func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeDataSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
}
