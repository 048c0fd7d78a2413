package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

// Client talks to the zone store over GET/POST /zones.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) Fetch(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/zones", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrSnapshotNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

func (c *Client) Save(ctx context.Context, snap *models.Snapshot) (*models.SaveResult, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("error encoding snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/zones", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var res models.SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return &res, nil
}

// statusError prefers the server's own error message over the bare status.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var e errorResponse
	if json.Unmarshal(data, &e) == nil {
		if e.Error != "" {
			return fmt.Errorf("zone store: %s (status %d)", e.Error, resp.StatusCode)
		}
		if e.Message != "" {
			return fmt.Errorf("zone store: %s (status %d)", e.Message, resp.StatusCode)
		}
	}
	return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
}
