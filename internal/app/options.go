package app

import (
	"time"

	"github.com/okian/healthfetch/pkg/logger"
)

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		if next != nil {
			o.newRunID = next
		}
	}
}

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(l logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClock sets the time source used to pick "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGuardOpener replaces the configured database.
func WithGuardOpener(open GuardOpener) Option {
	return func(s *Service) {
		if open != nil {
			s.open = open
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
