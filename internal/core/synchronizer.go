package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
	"github.com/edvin/dbaccess/internal/native"
)

// NativeServer is the native account and grant executor. *native.Server
// implements it.
type NativeServer interface {
	Grant(ctx context.Context, keyword, object string, a native.Account) (string, error)
	Revoke(ctx context.Context, keyword, object string, a native.Account) (string, error)
	CreateUser(ctx context.Context, a native.Account, password string) error
	DropUser(ctx context.Context, a native.Account) (bool, error)
	FlushPrivileges(ctx context.Context) error
	HasGlobalAllPrivileges(ctx context.Context, a native.Account) (bool, error)
	ListAccounts(ctx context.Context) ([]native.Account, error)
}

var _ NativeServer = (*native.Server)(nil)

// Synchronizer turns catalog privileges into GRANT and REVOKE statements.
type Synchronizer struct {
	catalog catalog.Catalog
	server  NativeServer
	logger  zerolog.Logger
}

func NewSynchronizer(c catalog.Catalog, server NativeServer, logger zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		catalog: c,
		server:  server,
		logger:  logger.With().Str("component", "grant-synchronizer").Logger(),
	}
}

// withCatalog returns a copy reading through c, typically a transaction.
func (s *Synchronizer) withCatalog(c catalog.Catalog) *Synchronizer {
	cp := *s
	cp.catalog = c
	return &cp
}

// nativeStatement is one planned GRANT or REVOKE.
type nativeStatement struct {
	privilege string
	keyword   string
	object    string
}

func (n nativeStatement) key() string {
	return n.keyword + " ON " + n.object
}

func accountOf(u *model.DatabaseUser) native.Account {
	return native.Account{User: u.Username, Host: u.Host}
}

// ApplyRolePrivileges grants every privilege of a role to a user at the given
// scope. Individual statement failures are reported, not returned; only a
// lost connection or a catalog error aborts the fan-out.
func (s *Synchronizer) ApplyRolePrivileges(ctx context.Context, dbUserID, roleID string, scope model.Scope) (*model.ApplyReport, error) {
	user, err := s.catalog.GetDatabaseUser(ctx, dbUserID)
	if err != nil {
		return nil, fmt.Errorf("apply role %s: %w", roleID, err)
	}
	account := accountOf(user)
	report := &model.ApplyReport{Account: account.String(), Statements: []string{}}

	holdsAll, err := s.server.HasGlobalAllPrivileges(ctx, account)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("user", account.User).Str("host", account.Host).
			Msg("could not inspect current grants, applying anyway")
	case holdsAll:
		s.logger.Info().Str("user", account.User).Str("host", account.Host).
			Msg("account already holds ALL PRIVILEGES ON *.*, skipping role apply")
		report.Skip("*", "account already holds ALL PRIVILEGES ON *.*")
		return report, nil
	}

	privs, err := s.rolePrivileges(ctx, roleID)
	if err != nil {
		return nil, err
	}
	planned := s.planScoped(privs, scope, account, report, nil)
	if err := s.execute(ctx, native.KindGrant, s.server.Grant, account, planned, report); err != nil {
		return report, err
	}
	return report, s.flush(ctx, report)
}

// RevokeRolePrivileges is the mirror of ApplyRolePrivileges.
func (s *Synchronizer) RevokeRolePrivileges(ctx context.Context, dbUserID, roleID string, scope model.Scope) (*model.ApplyReport, error) {
	return s.revokeRolePrivileges(ctx, dbUserID, roleID, scope, nil)
}

// revokeRolePrivileges skips statements retain covers and reissues the
// narrower grants in retain that an ALL PRIVILEGES revoke strips.
func (s *Synchronizer) revokeRolePrivileges(ctx context.Context, dbUserID, roleID string, scope model.Scope, retain grantSet) (*model.ApplyReport, error) {
	user, err := s.catalog.GetDatabaseUser(ctx, dbUserID)
	if err != nil {
		return nil, fmt.Errorf("revoke role %s: %w", roleID, err)
	}
	account := accountOf(user)
	report := &model.ApplyReport{Account: account.String(), Statements: []string{}}

	privs, err := s.rolePrivileges(ctx, roleID)
	if err != nil {
		return nil, err
	}
	planned := s.planScoped(privs, scope, account, report, retain)
	if err := s.execute(ctx, native.KindRevoke, s.server.Revoke, account, planned, report); err != nil {
		return report, err
	}
	if restore := restoreAfterRevoke(planned, retain); len(restore) > 0 {
		s.logger.Info().Str("user", account.User).Str("host", account.Host).Int("grants", len(restore)).
			Msg("restoring grants removed by ALL PRIVILEGES revoke")
		if err := s.execute(ctx, native.KindGrant, s.server.Grant, account, restore, report); err != nil {
			return report, err
		}
	}
	return report, s.flush(ctx, report)
}

// ApplyPrivilegesToUser is the full-resync path. It revokes ALL PRIVILEGES ON
// *.* and grants the union of the user's role privileges on databaseName.*,
// ignoring assignment scopes. An empty databaseName or "*" grants on *.*.
func (s *Synchronizer) ApplyPrivilegesToUser(ctx context.Context, dbUserID, databaseName string) (*model.ApplyReport, error) {
	user, err := s.catalog.GetDatabaseUser(ctx, dbUserID)
	if err != nil {
		return nil, fmt.Errorf("apply privileges: %w", err)
	}
	account := accountOf(user)
	report := &model.ApplyReport{Account: account.String(), Statements: []string{}}

	stmt, err := s.server.Revoke(ctx, "ALL PRIVILEGES", native.GlobalObject, account)
	switch {
	case errors.Is(err, model.ErrConnectionFailure):
		return report, fmt.Errorf("clean slate for %s: %w", account, err)
	case err != nil:
		s.logger.Warn().Err(err).Str("user", account.User).Str("host", account.Host).
			Msg("clean-slate revoke failed, continuing")
	default:
		report.Statements = append(report.Statements, stmt)
	}

	privs, err := s.catalog.ListUserRolePrivilegeUnion(ctx, dbUserID)
	if err != nil {
		return report, fmt.Errorf("apply privileges to %s: %w", account, err)
	}

	seen := make(map[string]bool)
	var planned []nativeStatement
	for _, p := range privs {
		source := p.MySQLPrivilege
		if source == "" {
			source = p.Name
		}
		keyword := NativeKeyword(source)
		if err := validKeyword(keyword); err != nil {
			s.skip(report, account, p.Name, err.Error())
			continue
		}
		n := nativeStatement{privilege: p.Name, keyword: keyword, object: bulkObject(keyword, databaseName)}
		if seen[n.key()] {
			continue
		}
		seen[n.key()] = true
		planned = append(planned, n)
	}

	if err := s.execute(ctx, native.KindGrant, s.server.Grant, account, planned, report); err != nil {
		return report, err
	}
	return report, s.flush(ctx, report)
}

func (s *Synchronizer) rolePrivileges(ctx context.Context, roleID string) ([]model.Privilege, error) {
	if _, err := s.catalog.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	privs, err := s.catalog.ListRolePrivileges(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("privileges of role %s: %w", roleID, err)
	}
	return privs, nil
}

// planScoped resolves each privilege to a statement, recording skipped ones.
func (s *Synchronizer) planScoped(privs []model.Privilege, scope model.Scope, account native.Account, report *model.ApplyReport, retain grantSet) []nativeStatement {
	planned := make([]nativeStatement, 0, len(privs))
	for i := range privs {
		p := &privs[i]
		keyword := NativeKeyword(p.MySQLPrivilege)
		if err := validKeyword(keyword); err != nil {
			s.skip(report, account, p.Name, err.Error())
			continue
		}
		target := effectiveScope(p, scope)
		object, widened, err := ResolveScopeStatement(keyword, target)
		if err != nil {
			s.skip(report, account, p.Name, err.Error())
			continue
		}
		if widened {
			s.logger.Warn().Str("user", account.User).Str("host", account.Host).
				Str("privilege", keyword).Str("requested_scope", target.String()).
				Msg("global-only privilege widened to *.*")
		}
		n := nativeStatement{privilege: p.Name, keyword: keyword, object: object}
		if retain.covers(keyword, object) {
			report.Skip(p.Name, "still granted by another assignment")
			continue
		}
		planned = append(planned, n)
	}
	return planned
}

type statementFunc func(ctx context.Context, keyword, object string, a native.Account) (string, error)

// execute issues each statement in turn. Rejected statements are recorded and
// the loop continues; a lost connection stops it.
func (s *Synchronizer) execute(ctx context.Context, kind string, run statementFunc, account native.Account, planned []nativeStatement, report *model.ApplyReport) error {
	for _, n := range planned {
		stmt, err := run(ctx, n.keyword, n.object, account)
		if err == nil {
			report.Statements = append(report.Statements, stmt)
			continue
		}
		if errors.Is(err, model.ErrConnectionFailure) {
			return fmt.Errorf("%s for %s aborted: %w", kind, account, err)
		}
		if kind == native.KindRevoke && native.IsMissingGrant(err) {
			s.logger.Debug().Str("statement", stmt).Msg("nothing to revoke")
			report.Statements = append(report.Statements, stmt)
			continue
		}
		s.logger.Warn().Err(err).Str("user", account.User).Str("host", account.Host).
			Str("privilege", n.keyword).Str("object", n.object).Msg("native statement failed, continuing")
		report.Fail(stmt, err)
	}
	return nil
}

func (s *Synchronizer) flush(ctx context.Context, report *model.ApplyReport) error {
	if err := s.server.FlushPrivileges(ctx); err != nil {
		if errors.Is(err, model.ErrConnectionFailure) {
			return fmt.Errorf("flush privileges: %w", err)
		}
		s.logger.Warn().Err(err).Msg("flush privileges failed")
		report.Fail("FLUSH PRIVILEGES", err)
	}
	return nil
}

func (s *Synchronizer) skip(report *model.ApplyReport, account native.Account, privilege, reason string) {
	s.logger.Warn().Str("user", account.User).Str("host", account.Host).
		Str("privilege", privilege).Str("reason", reason).Msg("skipping privilege")
	report.Skip(privilege, reason)
}
