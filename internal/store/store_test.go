package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"uk-demand-dashboard/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResults struct {
	execs  int
	failAt int
	closed bool
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	r.execs++
	if r.failAt > 0 && r.execs == r.failAt {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeResults) QueryRow() pgx.Row { return nil }
func (r *fakeResults) Close() error {
	r.closed = true
	return nil
}

type fakeDB struct {
	statements []string
	batches    []*pgx.Batch
	results    []*fakeResults
	failAt     int
	tx         *fakeTx
}

func (d *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	d.statements = append(d.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	d.tx = &fakeTx{db: d}
	return d.tx, nil
}

// fakeTx records into its fakeDB. Methods the store does not use are left
// to the embedded nil interface.
type fakeTx struct {
	pgx.Tx
	db         *fakeDB
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	d := tx.db
	d.batches = append(d.batches, b)
	res := &fakeResults{failAt: d.failAt}
	d.results = append(d.results, res)
	return res
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

func records(n int) []model.CleanedRecord {
	start := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.CleanedRecord, n)
	for i := range out {
		ts := start.Add(time.Duration(i) * 6 * time.Hour)
		out[i] = model.CleanedRecord{
			SettlementDate: ts.Format(model.SettlementDateLayout),
			ObservedAt:     ts,
			TempC:          float64(i),
			TSD:            30000,
		}
	}
	return out
}

func TestSaveCleanedBatches(t *testing.T) {
	db := &fakeDB{}
	s := New(db, "cleaned_demand")

	n, err := s.SaveCleaned(context.Background(), records(2500))
	require.NoError(t, err)
	assert.Equal(t, 2500, n)

	require.Len(t, db.statements, 2)
	assert.Contains(t, db.statements[0], `CREATE TABLE IF NOT EXISTS "cleaned_demand"`)
	assert.Equal(t, `TRUNCATE "cleaned_demand"`, db.statements[1])

	require.Len(t, db.batches, 3)
	assert.Equal(t, 1000, db.batches[0].Len())
	assert.Equal(t, 500, db.batches[2].Len())
	for _, r := range db.results {
		assert.True(t, r.closed)
	}
	require.NotNil(t, db.tx)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestSaveCleanedStopsOnError(t *testing.T) {
	db := &fakeDB{failAt: 3}
	n, err := New(db, "t").SaveCleaned(context.Background(), records(10))
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, db.results[0].closed)

	// The truncate ran inside the transaction, so rolling back keeps the
	// previous dataset.
	require.NotNil(t, db.tx)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestSaveCleanedRollsBackPartialBatch(t *testing.T) {
	db := &fakeDB{failAt: 1000}
	n, err := New(db, "t").SaveCleaned(context.Background(), records(1500))
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Len(t, db.batches, 1)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(math.NaN()))
	v := nullable(1.5)
	require.NotNil(t, v)
	assert.Equal(t, 1.5, *v)
}
