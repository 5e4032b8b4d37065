// Package transport performs upstream HTTP calls with per-class timeouts,
// bounded retries on transient failures and optional client-side rate limiting.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
	"golang.org/x/time/rate"
)

// CallClass selects the timeout applied to a call.
type CallClass string

const (
	ClassToken CallClass = "token"
	ClassData  CallClass = "data"
)

const (
	defaultTokenTimeout  = 30 * time.Second
	defaultDataTimeout   = 10 * time.Second
	defaultMaxRetries    = 2
	defaultBackoffFactor = time.Second
	// MaxBodyBytes bounds how much of a response body is read.
	MaxBodyBytes = 8 << 20
)

// Policy is the retry and timeout configuration of a Transport.
type Policy struct {
	MaxRetries    int
	BackoffFactor time.Duration
	Timeouts      map[CallClass]time.Duration
}

// Backoff returns the wait before retry number attempt (1-based): factor * 2^(attempt-1).
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return p.BackoffFactor << (attempt - 1)
}

// Retryable reports whether a response status is worth another attempt.
func Retryable(status int) bool {
	switch status {
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// RequestSpec describes one logical upstream call.
type RequestSpec struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a completed call: status and the fully read body.
type Response struct {
	Status int
	Body   []byte
}

// Transport is safe for concurrent use.
type Transport struct {
	client   *http.Client
	policy   Policy
	insecure bool
	limiter  *rate.Limiter
	logger   logger.Logger
}

// New creates a Transport. TLS verification stays on unless WithInsecureSkipVerify(true).
func New(opts ...Option) *Transport {
	t := &Transport{
		policy: Policy{
			MaxRetries:    defaultMaxRetries,
			BackoffFactor: defaultBackoffFactor,
			Timeouts: map[CallClass]time.Duration{
				ClassToken: defaultTokenTimeout,
				ClassData:  defaultDataTimeout,
			},
		},
		logger: logger.Get().Named("transport"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if t.insecure {
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // upstream certificate does not validate; opt-in via config
		}
		base.MaxIdleConnsPerHost = 64
		t.client = &http.Client{Transport: base}
	}
	return t
}

// Policy returns the effective retry policy.
func (t *Transport) Policy() Policy { return t.policy }

// Do performs req, retrying transport errors and 500/502/503/504 responses.
// Any other response, including 4xx, is returned as is.
func (t *Transport) Do(ctx context.Context, req RequestSpec, class CallClass) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= t.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordUpstreamRetry(string(class))
			wait := t.policy.Backoff(attempt)
			t.logger.Debug(ctx, "retrying upstream call",
				logger.String("url", req.URL),
				logger.Int("attempt", attempt+1),
				logger.Duration("backoff", wait),
				logger.Error(lastErr),
			)
			if err := sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrTransport, err)
			}
		}

		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: rate limiter: %w", ErrTransport, err)
			}
		}

		resp, err := t.once(ctx, req, class)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		if Retryable(resp.Status) {
			lastErr = fmt.Errorf("status %d", resp.Status)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, t.policy.MaxRetries+1, lastErr)
}

func (t *Transport) once(ctx context.Context, spec RequestSpec, class CallClass) (*Response, error) {
	timeout := t.policy.Timeouts[class]
	if timeout <= 0 {
		timeout = defaultDataTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if spec.Body != nil {
		body = bytes.NewReader(spec.Body)
	}
	req, err := http.NewRequestWithContext(callCtx, spec.Method, spec.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	for k, vs := range spec.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(string(class), "error", float64(time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	metrics.RecordUpstreamRequest(string(class), strconv.Itoa(resp.StatusCode), float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
