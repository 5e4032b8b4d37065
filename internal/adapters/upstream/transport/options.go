package transport

import (
	"net/http"
	"time"

	"github.com/okian/healthfetch/pkg/logger"
	"golang.org/x/time/rate"
)

// Option configures a Transport.
type Option func(*Transport)

// WithTimeout sets the per-attempt timeout of a call class.
func WithTimeout(class CallClass, d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.policy.Timeouts[class] = d
		}
	}
}

// WithRetries sets how many retries follow the first attempt and the backoff base.
func WithRetries(maxRetries int, backoffFactor time.Duration) Option {
	return func(t *Transport) {
		if maxRetries >= 0 {
			t.policy.MaxRetries = maxRetries
		}
		if backoffFactor >= 0 {
			t.policy.BackoffFactor = backoffFactor
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate validation.
func WithInsecureSkipVerify(skip bool) Option {
	return func(t *Transport) { t.insecure = skip }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(t *Transport) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithHTTPClient replaces the underlying client. TLS options are then ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}
