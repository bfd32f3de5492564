package native

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"

	"github.com/edvin/dbaccess/internal/model"
)

// MySQL/MariaDB server error numbers the executor reacts to.
const (
	erPasswordNoMatch     = 1133
	erNonexistingGrant    = 1141
	erNonexistingTblGrant = 1147
	erCannotUser          = 1396
)

// StatementError is returned when the server rejects a native statement or the
// connection is lost while running it.
type StatementError struct {
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s: %v", e.Statement, e.Err)
}

// Unwrap exposes the driver error together with the taxonomy sentinels.
func (e *StatementError) Unwrap() []error {
	errs := []error{model.ErrNativeStatementFailed, e.Err}
	if IsConnectionError(e.Err) {
		errs = append(errs, model.ErrConnectionFailure)
	}
	return errs
}

// IsConnectionError reports whether err means the server could not be reached.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsMissingAccount reports whether the server refused because the account does not exist.
func IsMissingAccount(err error) bool {
	return mysqlErrorNumber(err) == erCannotUser || mysqlErrorNumber(err) == erPasswordNoMatch
}

// IsMissingGrant reports whether a REVOKE found nothing to revoke.
func IsMissingGrant(err error) bool {
	n := mysqlErrorNumber(err)
	return n == erNonexistingGrant || n == erNonexistingTblGrant
}

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}
