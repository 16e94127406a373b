// pattern: Imperative Shell
package instance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"devframe/internal/fit"
)

// Client is a thin HTTP client for a running preview's inspector.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Health is the decoded body of GET /api/health.
type Health struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	UptimeSec int64  `json:"uptime_sec"`
	Fits      uint64 `json:"fits"`
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 10*time.Second)
}

// NewClientWithTimeout creates a Client with a custom timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Health fetches the inspector's health summary.
func (c *Client) Health() (Health, error) {
	var h Health
	body, err := c.do(http.MethodGet, "/api/health")
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(body, &h); err != nil {
		return h, fmt.Errorf("failed to decode health: %w", err)
	}
	return h, nil
}

// Geometry fetches the latest fit result.
func (c *Client) Geometry() (fit.Geometry, error) {
	var g fit.Geometry
	body, err := c.do(http.MethodGet, "/api/geometry")
	if err != nil {
		return g, err
	}
	if err := json.Unmarshal(body, &g); err != nil {
		return g, fmt.Errorf("failed to decode geometry: %w", err)
	}
	return g, nil
}

// RawGeometry returns the latest fit result as the inspector encoded it.
func (c *Client) RawGeometry() ([]byte, error) {
	return c.do(http.MethodGet, "/api/geometry")
}

// Actions lists the simulator actions the preview accepts.
func (c *Client) Actions() ([]string, error) {
	body, err := c.do(http.MethodGet, "/api/actions")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Actions []string `json:"actions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode actions: %w", err)
	}
	return resp.Actions, nil
}

// PostAction queues a simulator action on the preview.
func (c *Client) PostAction(name string) error {
	_, err := c.do(http.MethodPost, "/api/actions/"+url.PathEscape(name))
	return err
}

// DialStream opens the geometry websocket. The caller owns the connection.
func (c *Client) DialStream(ctx context.Context) (*websocket.Conn, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/stream"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return conn, nil
}

func (c *Client) do(method, path string) ([]byte, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to devframe: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("devframe returned status %d: %s", resp.StatusCode, extractErrorMessage(body))
	}

	return body, nil
}

// extractErrorMessage attempts to extract the error message from a JSON response body.
// If the body is not valid JSON or doesn't have an "error" field, returns the raw body string.
func extractErrorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return strings.TrimSpace(string(body))
}
