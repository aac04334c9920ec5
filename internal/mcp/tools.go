package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// defaultTimeRange returns start/end defaulting to the last 12 weeks.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -12*7)
	}

	return start, end, nil
}

// --- Tool definitions ---

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the workout session currently in progress, including its exercises and sets. Returns a note when no session is active."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List finished workout sessions (completed and abandoned), most recent first, with total tonnage, volume, and set counts."),
	mcp.WithNumber("page", mcp.Description("1-based page number. Defaults to 1.")),
	mcp.WithNumber("page_size", mcp.Description("Sessions per page. Defaults to 20, max 100.")),
)

var toolGetPreviousExercise = mcp.NewTool("get_previous_exercise",
	mcp.WithDescription("Look up the most recent completed occurrence of an exercise by name (case-insensitive) and return its recorded sets (weight, reps, RPE)."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name, e.g. 'Deadlift'")),
)

var toolGetWeekStatus = mcp.NewTool("get_week_status",
	mcp.WithDescription("Sessions completed in the current calendar week (Monday through Sunday) with total tonnage."),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Weekly aggregated training: session counts, tonnage, volume, and completed sets per calendar week."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 12 weeks ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) getActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session, err := h.ds.ActiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if session == nil {
		return mcp.NewToolResultText("no session in progress"), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 1)
	pageSize := req.GetInt("page_size", 20)

	result, err := h.ds.History(ctx, page, pageSize)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out, err := mcp.NewToolResultJSON(result)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return out, nil
}

func (h *handlers) getPreviousExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	prev, err := h.ds.PreviousExercise(ctx, name)
	if err != nil {
		h.log.Error("mcp get_previous_exercise", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if prev == nil {
		return mcp.NewToolResultText("no completed occurrence of " + name), nil
	}

	result, err := mcp.NewToolResultJSON(prev)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeekStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := h.ds.WeekStatus(ctx)
	if err != nil {
		h.log.Error("mcp get_week_status", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(week)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	periods, err := h.ds.TrainingSummary(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(periods)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
