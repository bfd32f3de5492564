package handler

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/dbaccess/internal/cache"
	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/core"
)

// handlerMockDB implements catalog.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// Begin returns a transaction that forwards statements to the same mock.
func (m *handlerMockDB) Begin(context.Context) (pgx.Tx, error) {
	return &handlerMockTx{db: m}, nil
}

type handlerMockTx struct {
	pgx.Tx
	db *handlerMockDB
}

func (t *handlerMockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, arguments...)
}

func (t *handlerMockTx) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, arguments...)
}

func (t *handlerMockTx) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, arguments...)
}

func (t *handlerMockTx) Commit(context.Context) error   { return nil }
func (t *handlerMockTx) Rollback(context.Context) error { return nil }

// handlerMockRow implements pgx.Row.
type handlerMockRow struct {
	scanFunc func(dest ...any) error
}

func (r *handlerMockRow) Scan(dest ...any) error {
	return r.scanFunc(dest...)
}

// roleRow scans into the column order of the roles table.
func roleRow(id, name string) *handlerMockRow {
	return &handlerMockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = name
		*(dest[2].(*string)) = ""
		*(dest[3].(*bool)) = false
		*(dest[4].(*time.Time)) = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		return nil
	}}
}

func noRow() *handlerMockRow {
	return &handlerMockRow{scanFunc: func(...any) error { return pgx.ErrNoRows }}
}

// newTestServices wires the core services over a mocked catalog connection.
// No native server is attached, so only catalog-only paths can be exercised.
func newTestServices(db *handlerMockDB) *core.Services {
	return core.NewServices(catalog.NewStore(db), nil, cache.New(0, nil), "%", zerolog.Nop())
}
