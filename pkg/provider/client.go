// Package provider is the HTTP wrapper shared by every third-party data provider.
//
// It injects credentials, encodes JSON bodies and turns status codes into the
// domain error taxonomy. It keeps no state between calls.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/observability"
)

// AuthStyle selects how the credential is attached to a request.
type AuthStyle int

const (
	// AuthHeader sends the credential verbatim in the header named by Config.AuthKey.
	AuthHeader AuthStyle = iota
	// AuthBearer sends "Authorization: Bearer <credential>".
	AuthBearer
	// AuthQuery sends the credential as the query parameter named by Config.AuthKey.
	AuthQuery
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 2048

// Config describes one provider endpoint.
type Config struct {
	Name       string
	BaseURL    string
	Credential string
	Auth       AuthStyle
	AuthKey    string
	// Headers are static headers sent with every request.
	Headers map[string]string
	Timeout time.Duration
}

// Request is a single provider call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body, when non-nil, is encoded as JSON.
	Body any
}

// Response is a successful (2xx) provider response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client issues requests against one provider.
type Client struct {
	cfg     Config
	http    *http.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a provider client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.cfg.Credential != ""
}

// Do sends req and interprets the response status.
// A missing credential fails with domain.ErrMissingCredential before any network I/O.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%s: %w", c.cfg.Name, domain.ErrMissingCredential)
	}

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveProvider(c.cfg.Name, 0, time.Since(start))
		c.logger.Warn("provider request failed", "provider", c.cfg.Name, "path", req.Path, "error", err)
		return nil, fmt.Errorf("%s: request failed: %w", c.cfg.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveProvider(c.cfg.Name, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", c.cfg.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		c.logger.Debug("provider returned error status", "provider", c.cfg.Name, "path", req.Path, "status", resp.StatusCode)
		return nil, &StatusError{Provider: c.cfg.Name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// DoJSON sends req and decodes a successful response body into out.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: malformed response: %w", c.cfg.Name, err)
	}
	return nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid url: %w", c.cfg.Name, err)
	}
	q := u.Query()
	for k, vs := range req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.cfg.Auth == AuthQuery {
		q.Set(c.cfg.AuthKey, c.cfg.Credential)
	}
	u.RawQuery = q.Encode()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", c.cfg.Name, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", c.cfg.Name, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	switch c.cfg.Auth {
	case AuthHeader:
		httpReq.Header.Set(c.cfg.AuthKey, c.cfg.Credential)
	case AuthBearer:
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Credential)
	}
	return httpReq, nil
}
