package native

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/metrics"
	"github.com/edvin/dbaccess/internal/model"
)

// Executor is the subset of *sql.DB the native server needs. Account
// management statements cannot be parameterized, so every identifier is quoted
// before it is interpolated.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Server issues account and grant statements against a MariaDB/MySQL server.
type Server struct {
	db     Executor
	logger zerolog.Logger
}

// NewServer creates a new Server.
func NewServer(db Executor, logger zerolog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger.With().Str("component", "native-server").Logger(),
	}
}

// exec runs one statement. display is the form used in logs and errors.
func (s *Server) exec(ctx context.Context, kind, stmt, display string) error {
	s.logger.Debug().Str("statement", display).Msg("executing native statement")

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		metrics.ObserveNativeStatement(kind, metrics.OutcomeFailed)
		return &StatementError{Statement: display, Err: err}
	}
	metrics.ObserveNativeStatement(kind, metrics.OutcomeOK)
	return nil
}

// Grant issues GRANT keyword ON object TO account and returns the statement text.
func (s *Server) Grant(ctx context.Context, keyword, object string, a Account) (string, error) {
	if !ValidKeyword(keyword) {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidPrivilege, keyword)
	}
	stmt := grantStmt(keyword, object, a)
	return stmt, s.exec(ctx, KindGrant, stmt, stmt)
}

// Revoke issues REVOKE keyword ON object FROM account and returns the statement text.
func (s *Server) Revoke(ctx context.Context, keyword, object string, a Account) (string, error) {
	if !ValidKeyword(keyword) {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidPrivilege, keyword)
	}
	stmt := revokeStmt(keyword, object, a)
	return stmt, s.exec(ctx, KindRevoke, stmt, stmt)
}

// CreateUser creates a native account identified by password.
func (s *Server) CreateUser(ctx context.Context, a Account, password string) error {
	s.logger.Info().Str("user", a.User).Str("host", a.Host).Msg("creating native account")
	return s.exec(ctx, KindCreateUser, createUserStmt(a, password), createUserDisplay(a))
}

// DropUser drops a native account. A missing account is not an error; existed
// reports whether the server actually dropped something.
func (s *Server) DropUser(ctx context.Context, a Account) (existed bool, err error) {
	s.logger.Info().Str("user", a.User).Str("host", a.Host).Msg("dropping native account")

	stmt := dropUserStmt(a)
	if err := s.exec(ctx, KindDropUser, stmt, stmt); err != nil {
		if IsMissingAccount(err) {
			s.logger.Warn().Err(err).Str("user", a.User).Str("host", a.Host).Msg("native account does not exist, nothing to drop")
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FlushPrivileges reloads the server's grant tables.
func (s *Server) FlushPrivileges(ctx context.Context) error {
	return s.exec(ctx, KindFlush, flushPrivilegesStmt, flushPrivilegesStmt)
}

// ShowGrants returns the server's GRANT lines for an account.
func (s *Server) ShowGrants(ctx context.Context, a Account) ([]string, error) {
	stmt := showGrantsStmt(a)
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, &StatementError{Statement: stmt, Err: err}
	}
	defer rows.Close()

	var grants []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan grant line: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grant lines: %w", err)
	}
	return grants, nil
}

// staticGlobalPrivileges is what MySQL 8 expands ALL PRIVILEGES ON *.* into.
var staticGlobalPrivileges = []string{
	"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "RELOAD", "SHUTDOWN",
	"PROCESS", "FILE", "REFERENCES", "INDEX", "ALTER", "SHOW DATABASES", "SUPER",
	"CREATE TEMPORARY TABLES", "LOCK TABLES", "EXECUTE", "REPLICATION SLAVE",
	"REPLICATION CLIENT", "CREATE VIEW", "SHOW VIEW", "CREATE ROUTINE", "ALTER ROUTINE",
	"CREATE USER", "EVENT", "TRIGGER", "CREATE TABLESPACE", "CREATE ROLE", "DROP ROLE",
}

// HasGlobalAllPrivileges reports whether the account holds ALL PRIVILEGES ON *.*.
// MariaDB and MySQL 5.7 print that literally. MySQL 8 lists the static
// privileges one by one, so a *.* line naming all of them counts too.
func (s *Server) HasGlobalAllPrivileges(ctx context.Context, a Account) (bool, error) {
	grants, err := s.ShowGrants(ctx, a)
	if err != nil {
		return false, err
	}
	for _, g := range grants {
		if grantsAllGlobal(g) {
			return true, nil
		}
	}
	return false, nil
}

func grantsAllGlobal(line string) bool {
	upper := strings.ToUpper(line)
	if !strings.HasPrefix(upper, "GRANT ") {
		return false
	}
	list, _, found := strings.Cut(strings.TrimPrefix(upper, "GRANT "), " ON *.* TO ")
	if !found {
		return false
	}
	held := make(map[string]bool)
	for _, p := range strings.Split(list, ",") {
		held[strings.Join(strings.Fields(p), " ")] = true
	}
	if held["ALL PRIVILEGES"] || held["ALL"] {
		return true
	}
	for _, p := range staticGlobalPrivileges {
		if !held[p] {
			return false
		}
	}
	return true
}

// ListAccounts returns every account known to the server.
func (s *Server) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, listAccountsQuery)
	if err != nil {
		return nil, &StatementError{Statement: listAccountsQuery, Err: err}
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.User, &a.Host); err != nil {
			return nil, fmt.Errorf("scan native account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate native accounts: %w", err)
	}
	return accounts, nil
}
