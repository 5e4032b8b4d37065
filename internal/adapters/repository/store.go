// Package repository persists daily records at most once per date.
package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/healthfetch/internal/domain/record"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Backend is the dialect specific SQL behind a Guard. Implementations hold one
// connection and are used from a single goroutine.
type Backend interface {
	// TableExists reports whether the record table is present.
	TableExists(ctx context.Context) (bool, error)
	// CreateTable creates the record table if it is missing.
	CreateTable(ctx context.Context) error
	// CountByDate counts rows stored for date.
	CountByDate(ctx context.Context, date string) (int, error)
	// InsertIgnore inserts one row and silently skips a data_date conflict.
	// It returns the number of rows written.
	InsertIgnore(ctx context.Context, columns, values []string) (int64, error)
	// Count returns the total number of rows.
	Count(ctx context.Context) (int, error)
	// RecentDates returns up to limit dates, newest first.
	RecentDates(ctx context.Context, limit int) ([]string, error)
	Close(ctx context.Context) error
}

// Open connects the backend named by driver and wraps it in a Guard.
func Open(ctx context.Context, driver, dsn, table string, opts ...Option) (*Guard, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	var (
		b   Backend
		err error
	)
	switch driver {
	case DriverPostgres:
		b, err = NewPostgres(ctx, dsn, table)
	case DriverSQLite:
		b, err = NewSQLite(ctx, dsn, table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	return NewGuard(b, opts...), nil
}

// createTableSQL renders the schema: a surrogate key, a unique data_date and
// TEXT for every other column.
func createTableSQL(table, idColumn string) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(table)
	sb.WriteString(" (\n\t")
	sb.WriteString(idColumn)
	for _, c := range record.ColumnNames() {
		sb.WriteString(",\n\t")
		sb.WriteString(c)
		if c == string(record.DataDate) {
			sb.WriteString(" VARCHAR(50) NOT NULL UNIQUE")
			continue
		}
		sb.WriteString(" TEXT")
	}
	sb.WriteString("\n)")
	return sb.String()
}

// insertIgnoreSQL renders a conflict tolerant insert; placeholder(i) is 1-based.
func insertIgnoreSQL(table string, columns []string, placeholder func(i int) string) string {
	ph := make([]string, len(columns))
	for i := range columns {
		ph[i] = placeholder(i + 1)
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" +
		strings.Join(ph, ", ") + ") ON CONFLICT (" + string(record.DataDate) + ") DO NOTHING"
}
