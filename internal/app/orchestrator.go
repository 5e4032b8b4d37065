// Package app drives ingestion runs and exposes them to the HTTP and CLI surfaces.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/healthfetch/internal/adapters/upstream/fetcher"
	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/okian/healthfetch/internal/domain/progress"
	"github.com/okian/healthfetch/internal/domain/record"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
)

// Messages carried by log, error and date events.
const (
	msgCheckingTable  = "Checking database table..."
	msgTableReady     = "Database table ready"
	msgGettingToken   = "Getting API token..."
	msgTokenObtained  = "Token obtained successfully"
	msgDBConnFailed   = "Database connection failed"
	msgTableFailed    = "Failed to create database table"
	msgTokenFailed    = "Failed to get API token"
	msgAlreadyStored  = "Already exists in database"
	msgSaved          = "Data saved to database"
	msgSaveFailed     = "Failed to save to database"
	fmtFetchingDate   = "Fetching all %d endpoints concurrently for %s..."
	fmtProcessingDate = "Processing data for %s..."
)

// Emitter receives progress events. Only the run's goroutine calls Emit, so
// implementations need no locking.
type Emitter interface {
	Emit(ctx context.Context, e progress.Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, e progress.Event)

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, e progress.Event) { f(ctx, e) }

// Store is the persistence contract a run needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Exists(ctx context.Context, date string) (bool, error)
	Insert(ctx context.Context, rec record.DailyRecord) (bool, error)
	RecordCount(ctx context.Context) (int, error)
	Close(ctx context.Context) error
}

// StoreOpener connects a Store for one run.
type StoreOpener func(ctx context.Context) (Store, error)

// Session is the token lifecycle a run drives.
type Session interface {
	Obtain(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}

// Fetcher fans out one date.
type Fetcher interface {
	Endpoints() []endpoint.Descriptor
	FetchAll(ctx context.Context, date string) <-chan fetcher.Outcome
}

// Assembler merges one date's results.
type Assembler interface {
	Assemble(results map[string]map[string]any, date, rangeStart, rangeEnd string) (record.DailyRecord, error)
}

// Summary is the outcome of a run. Err is set when the run ended on a fatal error.
type Summary struct {
	RunID        string `json:"run_id"`
	Success      int    `json:"success"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	TotalRecords int    `json:"total_records"`
	Err          error  `json:"-"`
}

// Orchestrator runs dates strictly one after another and narrates every step.
type Orchestrator struct {
	open      StoreOpener
	session   Session
	fetcher   Fetcher
	assembler Assembler
	newRunID  func() string
	logger    logger.Logger
}

// NewOrchestrator wires a run's collaborators.
func NewOrchestrator(open StoreOpener, session Session, f Fetcher, a Assembler, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		open:      open,
		session:   session,
		fetcher:   f,
		assembler: a,
		newRunID:  uuid.NewString,
		logger:    logger.Get().Named("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run ingests dates in order. It ends with exactly one terminal event: complete,
// or error on a fatal failure before the date loop. The store is always closed.
func (o *Orchestrator) Run(ctx context.Context, dates []string, emit Emitter) Summary {
	sum := Summary{RunID: o.newRunID()}
	log := o.logger.With(logger.String("run_id", sum.RunID))
	started := time.Now()

	fail := func(msg string, err error) Summary {
		log.Error(ctx, msg, logger.Error(err))
		metrics.RecordRun("error")
		emit.Emit(ctx, progress.Error(msg))
		sum.Err = fmt.Errorf("%s: %w", msg, err)
		return sum
	}

	store, err := o.open(ctx)
	if err != nil {
		return fail(msgDBConnFailed, err)
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			log.Warn(ctx, "closing store", logger.Error(err))
		}
	}()

	emit.Emit(ctx, progress.Log(msgCheckingTable))
	if err := store.EnsureSchema(ctx); err != nil {
		return fail(msgTableFailed, err)
	}
	emit.Emit(ctx, progress.Log(msgTableReady))

	endpoints := o.fetcher.Endpoints()
	emit.Emit(ctx, progress.Start(len(dates), len(endpoints), sum.RunID))

	emit.Emit(ctx, progress.Log(msgGettingToken))
	if _, err := o.session.Obtain(ctx); err != nil {
		return fail(msgTokenFailed, err)
	}
	emit.Emit(ctx, progress.Log(msgTokenObtained))
	log.Info(ctx, "run started", logger.Int("dates", len(dates)), logger.Int("endpoints", len(endpoints)))

	for i, date := range dates {
		emit.Emit(ctx, progress.DateStart(date, i+1, len(dates)))

		exists, err := store.Exists(ctx, date)
		if err != nil {
			log.Warn(ctx, "duplicate check failed, fetching anyway", logger.String("date", date), logger.Error(err))
		}
		if exists {
			emit.Emit(ctx, progress.DateSkip(date, msgAlreadyStored))
			metrics.RecordDate("skipped")
			sum.Skipped++
			continue
		}

		results := o.fetchDate(ctx, date, endpoints, emit)

		if i < len(dates)-1 {
			if err := o.session.Refresh(ctx); err != nil {
				log.Warn(ctx, "proactive token refresh failed, keeping current token", logger.Error(err))
			}
		}

		emit.Emit(ctx, progress.Log(fmt.Sprintf(fmtProcessingDate, date)))
		if o.save(ctx, log, store, results, date) {
			emit.Emit(ctx, progress.DateDone(date, true, msgSaved))
			metrics.RecordDate("success")
			sum.Success++
		} else {
			emit.Emit(ctx, progress.DateDone(date, false, msgSaveFailed))
			metrics.RecordDate("failed")
			sum.Failed++
		}
	}

	total, err := store.RecordCount(ctx)
	if err != nil {
		log.Warn(ctx, "record count failed", logger.Error(err))
	}
	sum.TotalRecords = total
	metrics.UpdateTotalRecords(total)
	metrics.RecordRun("complete")
	log.Info(ctx, "run complete",
		logger.Int("success", sum.Success),
		logger.Int("skipped", sum.Skipped),
		logger.Int("failed", sum.Failed),
		logger.Duration("elapsed", time.Since(started)),
	)
	emit.Emit(ctx, progress.Complete(sum.Success, sum.Skipped, sum.Failed, sum.TotalRecords, sum.RunID))
	return sum
}

// fetchDate announces every endpoint, then reports each one as its fetch completes.
func (o *Orchestrator) fetchDate(ctx context.Context, date string, endpoints []endpoint.Descriptor, emit Emitter) map[string]map[string]any {
	emit.Emit(ctx, progress.Log(fmt.Sprintf(fmtFetchingDate, len(endpoints), date)))
	for i, d := range endpoints {
		emit.Emit(ctx, progress.EndpointStart(d.Name, d.Description, i+1, len(endpoints)))
	}

	results := make(map[string]map[string]any, len(endpoints))
	for out := range o.fetcher.FetchAll(ctx, date) {
		results[out.Endpoint.Name] = out.Result
		emit.Emit(ctx, progress.EndpointDone(out.Endpoint.Name, out.Result != nil))
	}
	return results
}

func (o *Orchestrator) save(ctx context.Context, log logger.Logger, store Store, results map[string]map[string]any, date string) bool {
	rec, err := o.assembler.Assemble(results, date, date, date)
	if err != nil {
		log.Error(ctx, "assemble failed", logger.String("date", date), logger.Error(err))
		return false
	}
	saved, err := store.Insert(ctx, rec)
	if err != nil {
		log.Error(ctx, "insert failed", logger.String("date", date), logger.Error(err))
		return false
	}
	return saved
}
