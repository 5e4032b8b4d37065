package repository

import "github.com/okian/healthfetch/pkg/logger"

// Option applies a configuration option to the Guard.
type Option func(*Guard)

// WithLogger sets a custom logger for the guard.
func WithLogger(l logger.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}
