// Package store loads the cleaned dataset into Postgres.
package store

import (
	"context"
	"fmt"
	"math"

	"uk-demand-dashboard/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// batchSize bounds the number of queued inserts per round trip.
const batchSize = 1000

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CleanedStore replaces the contents of one table with the cleaned records.
type CleanedStore struct {
	db    DB
	table string
}

func New(db DB, table string) *CleanedStore {
	return &CleanedStore{db: db, table: pgx.Identifier{table}.Sanitize()}
}

// Connect opens a pool and checks the connection.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (s *CleanedStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    settlement_date TEXT NOT NULL,
    observed_at TIMESTAMPTZ NOT NULL,
    temp_c DOUBLE PRECISION,
    tsd DOUBLE PRECISION
)`, s.table))
	return err
}

// SaveCleaned replaces the table contents with records in one transaction.
// Each run regenerates the dataset, so there is nothing to upsert; on any
// error the previous contents are kept.
func (s *CleanedStore) SaveCleaned(ctx context.Context, records []model.CleanedRecord) (int, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("ensure schema: %w", err)
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	if err := s.replace(ctx, tx, records); err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

func (s *CleanedStore) replace(ctx context.Context, tx pgx.Tx, records []model.CleanedRecord) error {
	if _, err := tx.Exec(ctx, "TRUNCATE "+s.table); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (settlement_date, observed_at, temp_c, tsd) VALUES ($1,$2,$3,$4)`, s.table)
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := &pgx.Batch{}
		for _, r := range records[start:end] {
			batch.Queue(query, r.SettlementDate, r.ObservedAt, nullable(r.TempC), nullable(r.TSD))
		}
		if err := send(ctx, tx, batch); err != nil {
			return err
		}
	}
	return nil
}

func send(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	res := tx.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}
	return res.Close()
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
