package mcp

import (
	"context"
	"time"

	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
)

// DataSource abstracts the read side the MCP tools expose. The stdio binary
// satisfies it with an HTTPClient against a running server's REST API, so
// the data stays on the server and user scoping is handled by its identity
// layer.
type DataSource interface {
	ActiveSession(ctx context.Context) (*models.Session, error)
	History(ctx context.Context, page, pageSize int) (*history.Page, error)
	PreviousExercise(ctx context.Context, name string) (*history.PreviousExercise, error)
	WeekStatus(ctx context.Context) (*history.WeekStatus, error)
	TrainingSummary(ctx context.Context, start, end time.Time) ([]history.SummaryPeriod, error)
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)
