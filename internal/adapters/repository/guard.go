package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/healthfetch/internal/domain/record"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
)

// Guard enforces at most one stored record per date on top of a Backend.
// It is not safe for concurrent use; a run owns its Guard.
type Guard struct {
	backend Backend
	logger  logger.Logger
}

// NewGuard wraps b.
func NewGuard(b Backend, opts ...Option) *Guard {
	g := &Guard{
		backend: b,
		logger:  logger.Get().Named("repository"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TableExists reports whether the record table is present.
func (g *Guard) TableExists(ctx context.Context) (bool, error) {
	defer observe("table_exists", time.Now())
	ok, err := g.backend.TableExists(ctx)
	if err != nil {
		metrics.RecordStoreError("table_exists")
		return false, fmt.Errorf("%w: table exists: %w", ErrQuery, err)
	}
	return ok, nil
}

// EnsureSchema makes sure the table exists, creating and re-verifying it when absent.
func (g *Guard) EnsureSchema(ctx context.Context) error {
	_, err := g.CreateIfMissing(ctx)
	return err
}

// CreateIfMissing is EnsureSchema that also reports whether it created the table.
// A failed existence check falls through to creation.
func (g *Guard) CreateIfMissing(ctx context.Context) (bool, error) {
	exists, err := g.TableExists(ctx)
	if err != nil {
		g.logger.Warn(ctx, "table check failed, creating anyway", logger.Error(err))
	}
	if exists {
		return false, nil
	}

	start := time.Now()
	if err := g.backend.CreateTable(ctx); err != nil {
		metrics.RecordStoreError("create_table")
		return false, fmt.Errorf("%w: create: %w", ErrSchema, err)
	}
	observe("create_table", start)

	exists, err = g.TableExists(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: verify: %w", ErrSchema, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: table missing after create", ErrSchema)
	}
	g.logger.Info(ctx, "record table created")
	return true, nil
}

// Exists reports whether a record for date is stored.
func (g *Guard) Exists(ctx context.Context, date string) (bool, error) {
	defer observe("exists", time.Now())
	n, err := g.backend.CountByDate(ctx, date)
	if err != nil {
		metrics.RecordStoreError("exists")
		return false, fmt.Errorf("%w: exists %s: %w", ErrQuery, date, err)
	}
	return n > 0, nil
}

// Insert stores rec unless its date is already present and reports whether a
// row was written. A date that appeared since the caller's check, or a lost
// conflict, yields (false, nil).
func (g *Guard) Insert(ctx context.Context, rec record.DailyRecord) (bool, error) {
	date := rec.DataDate()
	dup, err := g.Exists(ctx, date)
	if err != nil {
		g.logger.Warn(ctx, "duplicate re-check failed, relying on unique key",
			logger.String("date", date), logger.Error(err))
	}
	if dup {
		g.logger.Info(ctx, "record already stored", logger.String("date", date))
		return false, nil
	}

	start := time.Now()
	n, err := g.backend.InsertIgnore(ctx, record.ColumnNames(), rec.Row())
	observe("insert", start)
	if err != nil {
		metrics.RecordStoreError("insert")
		return false, fmt.Errorf("%w: %s: %w", ErrInsert, date, err)
	}
	if n == 0 {
		return false, nil
	}
	metrics.RecordRecordInserted()
	return true, nil
}

// RecordCount returns the total number of stored records.
func (g *Guard) RecordCount(ctx context.Context) (int, error) {
	defer observe("count", time.Now())
	n, err := g.backend.Count(ctx)
	if err != nil {
		metrics.RecordStoreError("count")
		return 0, fmt.Errorf("%w: count: %w", ErrQuery, err)
	}
	return n, nil
}

// RecentDates returns up to limit stored dates, newest first.
func (g *Guard) RecentDates(ctx context.Context, limit int) ([]string, error) {
	defer observe("recent_dates", time.Now())
	dates, err := g.backend.RecentDates(ctx, limit)
	if err != nil {
		metrics.RecordStoreError("recent_dates")
		return nil, fmt.Errorf("%w: recent dates: %w", ErrQuery, err)
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// Close releases the connection.
func (g *Guard) Close(ctx context.Context) error {
	return g.backend.Close(ctx)
}

func observe(op string, start time.Time) {
	metrics.RecordStoreQuery(op, float64(time.Since(start).Milliseconds()))
}
