// Package tugboat is a small client for the Tugboat preview REST API.
package tugboat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public Tugboat API endpoint.
	DefaultBaseURL = "https://api.tugboat.qa/v3"

	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		c.rawBaseURL = strings.TrimSpace(raw)
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient injects the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the Tugboat API. It is safe for concurrent use.
type Client struct {
	rawBaseURL string
	baseURL    *url.URL
	token      string
	http       *http.Client
	timeout    time.Duration
	logger     logrus.FieldLogger
}

// NewClient builds a client. A token is required.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		rawBaseURL: DefaultBaseURL,
		timeout:    defaultTimeout,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.token == "" {
		return nil, errors.New("tugboat: api token is required")
	}
	if c.rawBaseURL == "" {
		c.rawBaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(c.rawBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("tugboat: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("tugboat: base url %q must be http or https", c.rawBaseURL)
	}
	c.baseURL = base
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// CreatePreview starts building a preview for req.Ref in req.Repo.
func (c *Client) CreatePreview(ctx context.Context, req CreatePreviewRequest) (Preview, error) {
	if strings.TrimSpace(req.Repo) == "" || strings.TrimSpace(req.Ref) == "" {
		return Preview{}, errors.New("tugboat: repo and ref are required")
	}
	var out Preview
	if err := c.do(ctx, http.MethodPost, "previews", req, &out); err != nil {
		return Preview{}, err
	}
	return out, nil
}

// GetPreview fetches a single preview.
func (c *Client) GetPreview(ctx context.Context, id string) (Preview, error) {
	if strings.TrimSpace(id) == "" {
		return Preview{}, errors.New("tugboat: preview id is required")
	}
	var out Preview
	if err := c.do(ctx, http.MethodGet, "previews/"+url.PathEscape(id), nil, &out); err != nil {
		return Preview{}, err
	}
	return out, nil
}

// ListPreviews lists the previews of a repository.
func (c *Client) ListPreviews(ctx context.Context, repo string) ([]Preview, error) {
	if strings.TrimSpace(repo) == "" {
		return nil, errors.New("tugboat: repo is required")
	}
	var out []Preview
	if err := c.do(ctx, http.MethodGet, "repos/"+url.PathEscape(repo)+"/previews", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePreview deletes a preview.
func (c *Client) DeletePreview(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("tugboat: preview id is required")
	}
	return c.do(ctx, http.MethodDelete, "previews/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	endpoint := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tugboat: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("tugboat: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tugboat: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(started),
	}).Debug("tugboat api call")

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("tugboat: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, apiErr); err != nil {
				apiErr.Message = strings.TrimSpace(string(data))
			}
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("tugboat: decode response: %w", err)
	}
	return nil
}
