package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/routine"
)

// HTTPClient implements DataSource and Routines by calling the PushPull REST
// API. Used for remote MCP mode where the binary runs locally (stdio) but
// the workout log lives on another machine (reached over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time checks: HTTPClient satisfies DataSource and Routines.
var (
	_ DataSource = (*HTTPClient)(nil)
	_ Routines   = (*HTTPClient)(nil)
)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, apperr.NotFound("resource", path)
	}
	return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
}

func decodeInto[T any](body []byte, what string) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return v, nil
}

func (c *HTTPClient) List(ctx context.Context) ([]models.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts", nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[[]models.Workout](body, "workouts")
}

func (c *HTTPClient) LastDates(ctx context.Context) (*history.LastDates, error) {
	body, err := c.get(ctx, "/api/v1/workouts/last", nil)
	if err != nil {
		return nil, err
	}
	dates, err := decodeInto[history.LastDates](body, "last workouts")
	if err != nil {
		return nil, err
	}
	return &dates, nil
}

func (c *HTTPClient) Detail(ctx context.Context, id string) (*history.Detail, error) {
	body, err := c.get(ctx, "/api/v1/workouts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	detail, err := decodeInto[history.Detail](body, "workout")
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *HTTPClient) Exercises(ctx context.Context, wt models.WorkoutType) (*routine.Routine, error) {
	body, err := c.get(ctx, "/api/v1/routines/"+string(wt), nil)
	if err != nil {
		return nil, err
	}
	rt, err := decodeInto[routine.Routine](body, "routine")
	if err != nil {
		return nil, err
	}
	return &rt, nil
}
