// Package tracker is the REST client for the remote issue tracker. Each tool
// operation maps one-to-one onto an endpoint; the client adds nothing beyond
// authentication, timeouts, and error decoding. No caching, no retries.
package tracker

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

	"go.uber.org/zap"

	"github.com/issuewatch/issuewatch/internal/config"
)

const (
	issuesPath     = "/api/v1/issues"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// APIError is a non-2xx response from the tracker.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker returned %d: %s", e.Status, e.Message)
}

// Client talks to the tracker REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a Client from a validated config.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Credential,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListIssues fetches issues matching the given options.
func (c *Client) ListIssues(ctx context.Context, opts ListOptions) ([]Issue, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("query", opts.Query)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := issuesPath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Issues, nil
}

// GetIssue fetches a single issue by ID.
func (c *Client) GetIssue(ctx context.Context, id string) (*Issue, error) {
	var out Issue
	if err := c.do(ctx, http.MethodGet, issuesPath+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateIssue creates a new issue and returns the tracker's representation.
func (c *Client) CreateIssue(ctx context.Context, req CreateRequest) (*Issue, error) {
	var out Issue
	if err := c.do(ctx, http.MethodPost, issuesPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIssue applies a partial update to an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, id string, req UpdateRequest) (*Issue, error) {
	var out Issue
	if err := c.do(ctx, http.MethodPatch, issuesPath+"/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Probe is the liveness check: a listing with a minimal result limit.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.ListIssues(ctx, ListOptions{Limit: 1})
	return err
}

// do executes one request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("tracker request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tracker request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: apiMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiMessage extracts an error message from a response body, falling back to
// the raw (truncated) text.
func apiMessage(data []byte) string {
	var wire struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err == nil {
		if wire.Message != "" {
			return wire.Message
		}
		if wire.Error != "" {
			return wire.Error
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "no response body"
	}
	return msg
}
