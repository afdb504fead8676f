package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/corey/riskcard/internal/domain/engine"
	"github.com/corey/riskcard/internal/domain/record"
	"github.com/corey/riskcard/internal/domain/scorecard"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	ErrorResult
}

func (e *APIError) Error() string {
	if e.ErrorResult.Error == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.ErrorResult.Error)
}

// Client talks to a running riskcard server.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the server at baseURL. A bare host:port
// is treated as http.
func NewClient(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Score sends a change request for scoring.
func (c *Client) Score(ctx context.Context, req *record.ChangeRequest) (*engine.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	var res engine.Result
	if err := c.call(ctx, http.MethodPost, PathScore, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health fetches the engine state.
func (c *Client) Health(ctx context.Context) (*HealthResult, error) {
	var res HealthResult
	if err := c.call(ctx, http.MethodGet, PathHealth, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Scorecard fetches the active scorecard definition.
func (c *Client) Scorecard(ctx context.Context) (*scorecard.Definition, error) {
	var def scorecard.Definition
	if err := c.call(ctx, http.MethodGet, PathScorecard, nil, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// Reload asks the server to re-read its scorecard source.
func (c *Client) Reload(ctx context.Context) (*ReloadResult, error) {
	var res ReloadResult
	if err := c.call(ctx, http.MethodPost, PathReload, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// History lists published revisions, newest first.
func (c *Client) History(ctx context.Context, limit int) (*HistoryResult, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var res HistoryResult
	if err := c.call(ctx, http.MethodGet, PathHistory+"?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// call performs one request and decodes a 2xx body into out. Other
// statuses are returned as *APIError.
func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&apiErr.ErrorResult)
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
