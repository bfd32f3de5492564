package core

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edvin/dbaccess/internal/cache"
	"github.com/edvin/dbaccess/internal/native"
)

const showGrantsU = "SHOW GRANTS FOR 'U'@'%'"

type harness struct {
	cat  *fakeCatalog
	mock sqlmock.Sqlmock
	svc  *Services
	now  time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{
		cat:  newFakeCatalog(),
		mock: mock,
		now:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	listings := cache.New(time.Minute, cache.ClockFunc(func() time.Time { return h.now }))
	server := native.NewServer(db, zerolog.Nop())
	h.svc = NewServices(h.cat, server, listings, "%", zerolog.Nop())
	return h
}

func (h *harness) verify(t *testing.T) {
	t.Helper()
	require.NoError(t, h.mock.ExpectationsWereMet())
}

// expectPlainGrants answers SHOW GRANTS with an account that holds nothing.
func (h *harness) expectPlainGrants(showGrants string) {
	h.mock.ExpectQuery(showGrants).
		WillReturnRows(sqlmock.NewRows([]string{"Grants"}).AddRow("GRANT USAGE ON *.* TO `U`@`%`"))
}

func (h *harness) expectFlush() {
	h.mock.ExpectExec("FLUSH PRIVILEGES").WillReturnResult(sqlmock.NewResult(0, 0))
}

func ok() driver.Result {
	return sqlmock.NewResult(0, 0)
}
