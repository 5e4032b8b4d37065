package app

import (
	"context"
	"time"

	"github.com/okian/healthfetch/internal/adapters/mq/worker"
	"github.com/okian/healthfetch/internal/adapters/repository"
	"github.com/okian/healthfetch/internal/adapters/upstream/auth"
	"github.com/okian/healthfetch/internal/adapters/upstream/fetcher"
	"github.com/okian/healthfetch/internal/adapters/upstream/transport"
	"github.com/okian/healthfetch/internal/config"
	"github.com/okian/healthfetch/internal/domain/assemble"
	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/okian/healthfetch/internal/domain/schedule"
	"github.com/okian/healthfetch/pkg/logger"
)

const recentDatesLimit = 10

// GuardOpener connects the record store.
type GuardOpener func(ctx context.Context) (*repository.Guard, error)

// Service builds runs from configuration and answers the status queries of
// the HTTP and CLI surfaces. Each run gets its own token session and store
// connection.
type Service struct {
	cfg       *config.Config
	transport *transport.Transport
	assembler *assemble.Assembler
	pool      *worker.Pool
	open      GuardOpener
	now       func() time.Time
	logger    logger.Logger
}

// StatusReport describes the record store.
type StatusReport struct {
	Database    string   `json:"database"`
	TableExists bool     `json:"table_exists"`
	RecordCount int      `json:"record_count"`
	RecentDates []string `json:"recent_dates"`
	Error       string   `json:"error,omitempty"`
}

// SetupReport is the outcome of an explicit table creation.
type SetupReport struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	TableCreated bool   `json:"table_created"`
	RecordCount  int    `json:"record_count"`
}

// DebugReport is a low level connectivity probe.
type DebugReport struct {
	Driver      string   `json:"driver"`
	TableName   string   `json:"table_name"`
	Connection  bool     `json:"connection"`
	TableCheck  string   `json:"table_check,omitempty"`
	RecordCount *int     `json:"record_count"`
	Errors      []string `json:"errors"`
}

// New wires a Service from cfg.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.Get().Named("service"),
	}
	s.open = func(ctx context.Context) (*repository.Guard, error) {
		return repository.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.TableName)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.transport = transport.New(
		transport.WithTimeout(transport.ClassToken, cfg.TokenTimeout()),
		transport.WithTimeout(transport.ClassData, cfg.FetchTimeout()),
		transport.WithRetries(cfg.MaxRetries, cfg.BackoffFactor()),
		transport.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		transport.WithRateLimit(cfg.RequestRPS),
	)
	s.pool = worker.NewPool(cfg.FanOutWorkers, worker.WithName("fetch"))
	s.assembler = assemble.New(
		assemble.WithStateName(cfg.StateName),
		assemble.WithFocusArea(cfg.FocusArea),
		assemble.WithSource(cfg.Source),
	)
	return s
}

// Endpoints lists the registered endpoints.
func (s *Service) Endpoints() []endpoint.Descriptor {
	return endpoint.All()
}

// Today returns the single date a "today" run ingests.
func (s *Service) Today() []string {
	return schedule.Today(s.now())
}

// Run ingests dates, narrating to emit.
func (s *Service) Run(ctx context.Context, dates []string, emit Emitter) Summary {
	return s.orchestrator().Run(ctx, dates, emit)
}

// FetchToday ingests today's date.
func (s *Service) FetchToday(ctx context.Context, emit Emitter) Summary {
	return s.Run(ctx, s.Today(), emit)
}

// FetchRange validates and ingests an inclusive date range. Validation errors
// are returned before any I/O and nothing is emitted.
func (s *Service) FetchRange(ctx context.Context, from, to string, emit Emitter) (Summary, error) {
	dates, err := schedule.Range(from, to)
	if err != nil {
		return Summary{}, err
	}
	return s.Run(ctx, dates, emit), nil
}

// orchestrator builds a fresh token session per run.
func (s *Service) orchestrator() *Orchestrator {
	session := auth.New(s.transport, s.cfg.APIBaseURL, auth.Credentials{
		SecretKey: s.cfg.APISecretKey,
		ClientKey: s.cfg.APIClientKey,
	})
	f := fetcher.New(s.transport, session, s.cfg.APIBaseURL, fetcher.WithPool(s.pool))
	open := func(ctx context.Context) (Store, error) {
		g, err := s.open(ctx)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return NewOrchestrator(open, session, f, s.assembler)
}

// Status reports store connectivity, creating the table when it is missing.
func (s *Service) Status(ctx context.Context) StatusReport {
	report := StatusReport{Database: "disconnected", RecentDates: []string{}}
	g, err := s.open(ctx)
	if err != nil {
		s.logger.Warn(ctx, "status: store unavailable", logger.Error(err))
		return report
	}
	defer func() { _ = g.Close(ctx) }()
	report.Database = "connected"

	exists, err := g.TableExists(ctx)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	if !exists {
		if _, err := g.CreateIfMissing(ctx); err != nil {
			s.logger.Warn(ctx, "status: table creation failed", logger.Error(err))
			return report
		}
	}
	report.TableExists = true

	if report.RecordCount, err = g.RecordCount(ctx); err != nil {
		report.Error = err.Error()
	}
	if dates, err := g.RecentDates(ctx, recentDatesLimit); err == nil {
		report.RecentDates = dates
	}
	return report
}

// SetupTable creates the record table if it does not exist.
func (s *Service) SetupTable(ctx context.Context) SetupReport {
	g, err := s.open(ctx)
	if err != nil {
		s.logger.Warn(ctx, "setup: store unavailable", logger.Error(err))
		return SetupReport{Message: "Database connection failed"}
	}
	defer func() { _ = g.Close(ctx) }()

	created, err := g.CreateIfMissing(ctx)
	if err != nil {
		s.logger.Error(ctx, "setup: table creation failed", logger.Error(err))
		return SetupReport{Message: "Failed to create table"}
	}
	if created {
		return SetupReport{Success: true, Message: "Table created successfully", TableCreated: true}
	}
	count, _ := g.RecordCount(ctx)
	return SetupReport{Success: true, Message: "Table already exists", RecordCount: count}
}

// Debug probes the store without creating anything.
func (s *Service) Debug(ctx context.Context) DebugReport {
	report := DebugReport{Driver: s.cfg.DBDriver, TableName: s.cfg.TableName, Errors: []string{}}
	g, err := s.open(ctx)
	if err != nil {
		report.Errors = append(report.Errors, "Connection error: "+err.Error())
		return report
	}
	defer func() { _ = g.Close(ctx) }()
	report.Connection = true

	if exists, err := g.TableExists(ctx); err != nil {
		report.Errors = append(report.Errors, "Table check error: "+err.Error())
	} else if exists {
		report.TableCheck = "exists"
	} else {
		report.TableCheck = "not found"
	}

	if n, err := g.RecordCount(ctx); err != nil {
		report.Errors = append(report.Errors, "Record count error: "+err.Error())
	} else {
		report.RecordCount = &n
	}
	return report
}
