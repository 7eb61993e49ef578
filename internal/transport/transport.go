package transport

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

	"github.com/sirupsen/logrus"
)

// Result is the uniform shape of every completed HTTP exchange. Any status
// the server answered with, 2xx through 5xx, lands here; only a request that
// never reached the server becomes an error.
type Result struct {
	Status int
	Body   Body
	Raw    []byte
}

// Body is the parsed JSON object of a response. It is nil when the response
// had no body or the body was not a JSON object.
type Body map[string]interface{}

func (b Body) String(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	v, ok := b[key].(string)
	return v, ok
}

func (b Body) Bool(key string) (bool, bool) {
	if b == nil {
		return false, false
	}
	v, ok := b[key].(bool)
	return v, ok
}

// Int reads a JSON number as int. JSON numbers decode as float64.
func (b Body) Int(key string) (int, bool) {
	if b == nil {
		return 0, false
	}
	v, ok := b[key].(float64)
	return int(v), ok
}

// NetworkError wraps a transport-level failure: DNS, connection refused,
// timeout. HTTP error statuses are never a NetworkError.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach the server: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client issues requests against the cron manager backend. Exactly one
// network call per Send, no retries; a failed action is surfaced to the user
// for manual re-trigger.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func New(baseURL string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}, nil
}

// Send performs one HTTP call. jsonBody, when non-nil, is marshalled as the
// request body. Non-2xx statuses are business outcomes and come back in the
// Result; only transport failures return a *NetworkError.
func (c *Client) Send(ctx context.Context, method, path string, jsonBody interface{}) (*Result, error) {
	var reader io.Reader
	if jsonBody != nil {
		data, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		}).Debug("Request failed before reaching the server")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	result := &Result{Status: resp.StatusCode, Raw: raw}

	// An absent or unparseable body is not an error; classification falls
	// back to per-action defaults.
	var body Body
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil {
		result.Body = body
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Request completed")

	return result, nil
}
