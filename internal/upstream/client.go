// Package upstream provides access to the upstream employee directory.
// Calls are classified into success, not-found, rate-limited and error outcomes,
// and rate-limited calls are retried under a RetryPolicy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/empproxy/empproxy/internal/metrics"
	"github.com/empproxy/empproxy/internal/model"
)

const (
	// DefaultBaseURL is the collection endpoint of the local mock server.
	DefaultBaseURL = "http://localhost:8112/api/v1/employee"
	// DefaultConnectTimeout is the connection timeout.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultReadTimeout is the time to wait for a response.
	DefaultReadTimeout = 10 * time.Second
	// MaxResponseBytes caps how much of an upstream body is read.
	MaxResponseBytes = 10 << 20
)

// Operation names used in logs, metrics and errors.
const (
	OpFetchAll     = "fetch_all"
	OpFetchByID    = "fetch_by_id"
	OpCreate       = "create"
	OpDeleteByName = "delete_by_name"
)

// Config is the immutable upstream client configuration.
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Retry          RetryPolicy
}

// DefaultConfig returns the configuration for the local mock server.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		Retry:          DefaultRetryPolicy(),
	}
}

// NewHTTPClient creates an HTTP client bounded by the connect and read timeouts.
// It does not follow redirects.
func NewHTTPClient(cfg Config) *http.Client {
	return &http.Client{
		Timeout: cfg.ConnectTimeout + cfg.ReadTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.ConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Client calls the upstream employee collection endpoint.
type Client struct {
	baseURL        string
	http           *http.Client
	connectTimeout time.Duration
	retry          retrier
	logger         *slog.Logger
	metrics        metrics.Recorder
}

// New creates a Client. The base URL must be an absolute http(s) URL.
func New(cfg Config, logger *slog.Logger, recorder metrics.Recorder) (*Client, error) {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("upstream base URL must be absolute http(s): %q", cfg.BaseURL)
	}

	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	logger = logger.With("component", "upstream.client")

	return &Client{
		baseURL:        base,
		http:           NewHTTPClient(cfg),
		connectTimeout: cfg.ConnectTimeout,
		retry: retrier{
			policy:  cfg.Retry,
			logger:  logger,
			metrics: recorder,
		},
		logger:  logger,
		metrics: recorder,
	}, nil
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchAll returns every employee. A missing or null payload yields an empty slice.
func (c *Client) FetchAll(ctx context.Context) ([]model.Employee, error) {
	env, err := withRetry(ctx, c.retry, OpFetchAll, func(ctx context.Context) (model.Envelope, error) {
		return c.call(ctx, OpFetchAll, http.MethodGet, c.baseURL, nil)
	})
	if err != nil {
		return nil, err
	}

	if !env.HasData() {
		return []model.Employee{}, nil
	}

	var employees []model.Employee
	if err := json.Unmarshal(env.Data, &employees); err != nil {
		return nil, &Error{Op: OpFetchAll, Kind: KindMalformed, Err: err}
	}

	c.logger.Debug("fetched employees", "count", len(employees))
	return employees, nil
}

// FetchByID returns the employee with the given id.
// A 404 from the upstream yields (nil, nil).
func (c *Client) FetchByID(ctx context.Context, id string) (*model.Employee, error) {
	target := c.baseURL + "/" + url.PathEscape(id)

	env, err := withRetry(ctx, c.retry, OpFetchByID, func(ctx context.Context) (model.Envelope, error) {
		return c.call(ctx, OpFetchByID, http.MethodGet, target, nil)
	})
	if err != nil {
		if IsKind(err, KindNotFound) {
			c.logger.Info("employee not found upstream", "employee_id", id)
			return nil, nil
		}
		return nil, err
	}

	return decodeEmployee(OpFetchByID, env)
}

// Create posts a new employee and returns it with its upstream-assigned id.
func (c *Client) Create(ctx context.Context, input model.CreateEmployeeInput) (*model.Employee, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	env, err := withRetry(ctx, c.retry, OpCreate, func(ctx context.Context) (model.Envelope, error) {
		return c.call(ctx, OpCreate, http.MethodPost, c.baseURL, payload)
	})
	if err != nil {
		return nil, err
	}

	return decodeEmployee(OpCreate, env)
}

// deleteRequest is the upstream delete body; the upstream deletes by name.
type deleteRequest struct {
	Name string `json:"name"`
}

// DeleteByName deletes the employee with the given name.
// It returns true only when the upstream payload is exactly the boolean true.
func (c *Client) DeleteByName(ctx context.Context, name string) (bool, error) {
	payload, err := json.Marshal(deleteRequest{Name: name})
	if err != nil {
		return false, fmt.Errorf("marshal delete request: %w", err)
	}

	env, err := withRetry(ctx, c.retry, OpDeleteByName, func(ctx context.Context) (model.Envelope, error) {
		return c.call(ctx, OpDeleteByName, http.MethodDelete, c.baseURL, payload)
	})
	if err != nil {
		return false, err
	}

	return string(bytes.TrimSpace(env.Data)) == "true", nil
}

// Ping checks that the upstream host accepts TCP connections.
// It issues no HTTP request, so it never spends upstream rate-limit budget.
func (c *Client) Ping(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	dialer := &net.Dialer{Timeout: c.connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
	if err != nil {
		return err
	}
	return conn.Close()
}

// call performs one HTTP exchange and classifies its outcome.
func (c *Client) call(ctx context.Context, op, method, target string, payload []byte) (model.Envelope, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return model.Envelope{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	c.metrics.ObserveUpstreamDuration(op, duration)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.IncUpstreamRequest(op, metrics.OutcomeNetwork)
			return model.Envelope{}, &Error{Op: op, Kind: KindCanceled, Err: ctxErr}
		}
		c.metrics.IncUpstreamRequest(op, metrics.OutcomeNetwork)
		c.logger.Error("upstream request failed",
			"op", op,
			"method", method,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return model.Envelope{}, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		c.metrics.IncUpstreamRequest(op, metrics.OutcomeNetwork)
		return model.Envelope{}, &Error{Op: op, Kind: KindNetwork, StatusCode: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.metrics.IncUpstreamRequest(op, metrics.OutcomeRateLimited)
		return model.Envelope{}, &Error{Op: op, Kind: KindRateLimited, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.IncUpstreamRequest(op, metrics.OutcomeNotFound)
		return model.Envelope{}, &Error{Op: op, Kind: KindNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.metrics.IncUpstreamRequest(op, metrics.OutcomeError)
		return model.Envelope{}, &Error{Op: op, Kind: KindBadStatus, StatusCode: resp.StatusCode}
	}

	var env model.Envelope
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			c.metrics.IncUpstreamRequest(op, metrics.OutcomeError)
			return model.Envelope{}, &Error{Op: op, Kind: KindMalformed, StatusCode: resp.StatusCode, Err: err}
		}
	}

	c.metrics.IncUpstreamRequest(op, metrics.OutcomeSuccess)
	c.logger.Debug("upstream request completed",
		"op", op,
		"http_status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	return env, nil
}

// decodeEmployee unwraps a singular payload. A null payload is a failure here.
func decodeEmployee(op string, env model.Envelope) (*model.Employee, error) {
	if !env.HasData() {
		return nil, &Error{Op: op, Kind: KindMalformed, Err: errors.New("envelope has no data")}
	}

	var emp model.Employee
	if err := json.Unmarshal(env.Data, &emp); err != nil {
		return nil, &Error{Op: op, Kind: KindMalformed, Err: err}
	}
	return &emp, nil
}
