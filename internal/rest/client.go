// Package rest is the HTTP collaborator for the companion service that
// hosts off-ledger metadata, media and collection bookkeeping.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/observability"
)

// Service path prefixes on the REST host.
const (
	minterService      = "nft-minter"
	marketplaceService = "nft-marketplace"
)

// DefaultTimeout bounds one REST round trip.
const DefaultTimeout = 30 * time.Second

// HeaderProvider supplies the authenticated request headers. Calls that
// mutate server state carry them; public reads do not.
type HeaderProvider interface {
	Headers(ctx context.Context) (map[string]string, error)
}

// Client talks to the REST service.
type Client struct {
	baseURL string
	http    *http.Client
	auth    HeaderProvider
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithMetrics records request round-trip latency per endpoint.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a REST client rooted at baseURL. auth may be nil for
// a read-only client.
func NewClient(baseURL string, auth HeaderProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		auth:    auth,
		logger:  log.Rest,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the JSON wrapper mutating endpoints respond with.
type envelope struct {
	Response json.RawMessage `json:"response"`
}

// errorEnvelope is the error variant of the wrapper.
type errorEnvelope struct {
	Response struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"response"`
}

// StatusError carries a non-2xx response for callers that branch on the
// HTTP status (404 on marketplace reads is "no record", not a failure).
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// do performs one request. A non-nil out receives the decoded body; when
// enveloped is set the {response} wrapper is unwrapped first.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated, enveloped bool) error {
	if c.metrics != nil {
		start := time.Now()
		defer func() {
			c.metrics.RestRequestDuration.WithLabelValues(endpointLabel(path)).Observe(time.Since(start).Seconds())
		}()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if authenticated {
		if c.auth == nil {
			return domain.ErrWalletNotConnected
		}
		headers, err := c.auth.Headers(ctx)
		if err != nil {
			return fmt.Errorf("auth headers: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.RemoteError(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RemoteError("read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := remoteMessage(data)
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Str("error", msg).
			Msg("remote call failed")
		return domain.RemoteError(fmt.Sprintf("%s %s", method, path),
			&StatusError{StatusCode: resp.StatusCode, Message: msg})
	}

	if out == nil {
		return nil
	}
	payload := data
	if enveloped {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Response == nil {
			return domain.RemoteError("response envelope missing", err)
		}
		payload = env.Response
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return domain.RemoteError("decode response", err)
	}
	return nil
}

// remoteMessage digs the service's error message out of the envelope,
// falling back to the raw body.
func remoteMessage(data []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Response.Error.Message != "" {
		return env.Response.Error.Message
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}

// endpointLabel collapses a request path to its service and resource
// segments, keeping record IDs out of metric labels.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.SplitN(path, "/", 3)
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return path
}

// statusOf unwraps the StatusError behind a remote error, if any.
func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
