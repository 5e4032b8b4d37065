package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Postgres is a Backend over a single pgx connection.
type Postgres struct {
	conn  *pgx.Conn
	table string
}

// NewPostgres connects to dsn and verifies the connection.
func NewPostgres(ctx context.Context, dsn, table string) (*Postgres, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres: %w", ErrConnect, err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("%w: postgres ping: %w", ErrConnect, err)
	}
	return &Postgres{conn: conn, table: table}, nil
}

// TableExists implements Backend.
func (p *Postgres) TableExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := p.conn.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, p.table).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateTable implements Backend.
func (p *Postgres) CreateTable(ctx context.Context) error {
	_, err := p.conn.Exec(ctx, createTableSQL(p.table, "id BIGSERIAL PRIMARY KEY"))
	return err
}

// CountByDate implements Backend.
func (p *Postgres) CountByDate(ctx context.Context, date string) (int, error) {
	var n int
	err := p.conn.QueryRow(ctx, `SELECT COUNT(*) FROM `+p.table+` WHERE data_date = $1`, date).Scan(&n)
	return n, err
}

// InsertIgnore implements Backend.
func (p *Postgres) InsertIgnore(ctx context.Context, columns, values []string) (int64, error) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	q := insertIgnoreSQL(p.table, columns, func(i int) string { return "$" + strconv.Itoa(i) })
	tag, err := p.conn.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Count implements Backend.
func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	err := p.conn.QueryRow(ctx, `SELECT COUNT(*) FROM `+p.table).Scan(&n)
	return n, err
}

// RecentDates implements Backend.
func (p *Postgres) RecentDates(ctx context.Context, limit int) ([]string, error) {
	rows, err := p.conn.Query(ctx, `SELECT data_date FROM `+p.table+` ORDER BY data_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Close implements Backend.
func (p *Postgres) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}
