package mazeapi

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

	"github.com/samdwyer/mazebatch/internal/maze"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("maze service returned %d: %s", e.StatusCode, e.Message)
}

// Client is a maze.Service backed by a remote mazeapi server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ maze.Service = (*Client)(nil)

// NewClient creates a client for baseURL. A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Generate requests one maze from the server.
func (c *Client) Generate(ctx context.Context, req maze.Request) (*maze.Grid, error) {
	q := url.Values{}
	q.Set("width", strconv.Itoa(req.Width))
	q.Set("height", strconv.Itoa(req.Height))
	q.Set("seed", strconv.FormatInt(req.Seed, 10))
	q.Set("perfect", strconv.FormatBool(req.Perfect))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+MazePath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readStatusError(resp)
	}

	var grid maze.Grid
	if err := json.NewDecoder(resp.Body).Decode(&grid); err != nil {
		return nil, fmt.Errorf("decode maze: %w", err)
	}
	if grid.Width != req.Width || grid.Height != req.Height {
		return nil, fmt.Errorf("%w: server returned %dx%d for %dx%d", maze.ErrMalformed, grid.Width, grid.Height, req.Width, req.Height)
	}
	return &grid, nil
}

func readStatusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
