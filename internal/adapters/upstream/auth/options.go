package auth

import "github.com/okian/healthfetch/pkg/logger"

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
