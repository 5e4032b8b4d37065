package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLite is a Backend over a single database/sql connection.
type SQLite struct {
	db    *sql.DB
	table string
}

// busyTimeout lets overlapping runs wait for each other's write lock.
const busyTimeout = "_pragma=busy_timeout(5000)"

// NewSQLite opens dsn ("file:x.db", ":memory:", ...) and verifies the connection.
// A busy_timeout pragma is added unless dsn already sets one.
func NewSQLite(ctx context.Context, dsn, table string) (*SQLite, error) {
	db, err := sql.Open("sqlite", withBusyTimeout(dsn))
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite: %w", ErrConnect, err)
	}
	// One connection keeps :memory: databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: sqlite ping: %w", ErrConnect, err)
	}
	return &SQLite{db: db, table: table}, nil
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + busyTimeout
	}
	return dsn + "?" + busyTimeout
}

// TableExists implements Backend.
func (s *SQLite) TableExists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, s.table).Scan(&n)
	return n > 0, err
}

// CreateTable implements Backend.
func (s *SQLite) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createTableSQL(s.table, "id INTEGER PRIMARY KEY AUTOINCREMENT"))
	return err
}

// CountByDate implements Backend.
func (s *SQLite) CountByDate(ctx context.Context, date string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.table+` WHERE data_date = ?`, date).Scan(&n)
	return n, err
}

// InsertIgnore implements Backend.
func (s *SQLite) InsertIgnore(ctx context.Context, columns, values []string) (int64, error) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	q := insertIgnoreSQL(s.table, columns, func(int) string { return "?" })
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count implements Backend.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.table).Scan(&n)
	return n, err
}

// RecentDates implements Backend.
func (s *SQLite) RecentDates(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data_date FROM `+s.table+` ORDER BY data_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Close implements Backend.
func (s *SQLite) Close(context.Context) error {
	return s.db.Close()
}
