package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/secondbrain/client/internal/errors"
)

// timeout used when the caller does not configure one
const defaultRequestTimeout = 30 * time.Second

// returned when a 2xx response lacks the field the caller asked for
var ErrEmptyResponse = errors.New("response did not include the expected data")

// Client talks to the Second Brain REST API. Every request goes through the
// interceptor chain in its transport.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// creates a client for endpoint (e.g. http://localhost:3000/api/v1) whose
// transport is base wrapped in interceptors
func NewClient(endpoint string, timeout time.Duration, base http.RoundTripper, interceptors ...Interceptor) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: Chain(base, interceptors...),
		},
	}
}

// returns the configured API endpoint
func (c *Client) Endpoint() string {
	return c.endpoint
}

// sends a JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// executes req; non-2xx responses become *errors.APIError
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func (c *Client) url(path string) string {
	return c.endpoint + path
}

// escapes an id for use as a single path segment
func segment(id string) string {
	return url.PathEscape(id)
}
