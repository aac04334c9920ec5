package export

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// historyPage mirrors the server's history response without importing the
// history package (which would pull in the storage stack).
type historyPage struct {
	Items      []models.Session `json:"items"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// Client reads sessions from the IronLog server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the IronLog server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchHistoryPage retrieves one page of finished sessions.
func (c *Client) FetchHistoryPage(page, pageSize int) ([]models.Session, int, error) {
	url := fmt.Sprintf("%s/api/v1/history?page=%d&page_size=%d", c.serverURL, page, pageSize)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("history request failed (status %d): %s", resp.StatusCode, body)
	}

	var result historyPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("decoding history: %w", err)
	}
	return result.Items, result.TotalCount, nil
}

// FetchSession retrieves one session with its exercises and sets.
func (c *Client) FetchSession(id uuid.UUID) (*models.Session, error) {
	resp, err := c.httpClient.Get(c.serverURL + "/api/v1/sessions/" + id.String())
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("session request failed (status %d): %s", resp.StatusCode, body)
	}

	var session models.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}
