package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
)

// HTTPClient implements DataSource by calling the IronLog REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// get performs a GET and decodes the JSON response into out. Returns the
// HTTP status; out is left untouched for non-200 responses.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return resp.StatusCode, nil
}

// ActiveSession returns the in-progress session, or nil when there is none.
func (c *HTTPClient) ActiveSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	status, err := c.get(ctx, "/api/v1/sessions/active", nil, &session)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("active session: server returned %d", status)
	}
	return &session, nil
}

// History returns one page of finished sessions.
func (c *HTTPClient) History(ctx context.Context, page, pageSize int) (*history.Page, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}

	var result history.Page
	status, err := c.get(ctx, "/api/v1/history", query, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("history: server returned %d", status)
	}
	return &result, nil
}

// PreviousExercise returns the latest completed occurrence of an exercise,
// or nil when the server has no completed occurrence.
func (c *HTTPClient) PreviousExercise(ctx context.Context, name string) (*history.PreviousExercise, error) {
	query := url.Values{"name": []string{name}}

	var prev history.PreviousExercise
	status, err := c.get(ctx, "/api/v1/history/previous-exercise", query, &prev)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("previous exercise: server returned %d", status)
	}
	return &prev, nil
}

// WeekStatus returns the current week's completed sessions.
func (c *HTTPClient) WeekStatus(ctx context.Context) (*history.WeekStatus, error) {
	var week history.WeekStatus
	status, err := c.get(ctx, "/api/v1/history/week", nil, &week)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("week status: server returned %d", status)
	}
	return &week, nil
}

// TrainingSummary returns weekly aggregates for the given range.
func (c *HTTPClient) TrainingSummary(ctx context.Context, start, end time.Time) ([]history.SummaryPeriod, error) {
	query := url.Values{
		"start": []string{start.Format("2006-01-02")},
		"end":   []string{end.Format("2006-01-02")},
	}

	var periods []history.SummaryPeriod
	status, err := c.get(ctx, "/api/v1/history/summary", query, &periods)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("training summary: server returned %d", status)
	}
	return periods, nil
}
