package fetcher

import (
	"github.com/okian/healthfetch/internal/adapters/mq/worker"
	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/okian/healthfetch/pkg/logger"
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithEndpoints replaces the endpoint set. Used by tests.
func WithEndpoints(eps []endpoint.Descriptor) Option {
	return func(f *Fetcher) {
		if len(eps) > 0 {
			f.endpoints = eps
		}
	}
}

// WithPool sets the worker pool used for the fan-out.
func WithPool(p *worker.Pool) Option {
	return func(f *Fetcher) {
		if p != nil {
			f.pool = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}
