package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
	"github.com/edvin/dbaccess/internal/platform"
)

// CreateAccountParams describes a tracked account to create.
type CreateAccountParams struct {
	Username    string
	Host        string
	Description string
	// Password, when set, also creates the native account.
	Password string
}

// AccountService keeps tracked accounts and native accounts in lockstep.
//
// Native DDL auto-commits, so creation and deletion are two-phase: the native
// statement runs inside the bookkeeping transaction and a native failure rolls
// the bookkeeping back. A commit failure after native success leaves the server
// ahead of the catalog; SyncAccounts and DeleteAccount repair that drift.
type AccountService struct {
	catalog     catalog.Catalog
	server      NativeServer
	defaultHost string
	logger      zerolog.Logger
}

func NewAccountService(c catalog.Catalog, server NativeServer, defaultHost string, logger zerolog.Logger) *AccountService {
	if defaultHost == "" {
		defaultHost = model.DefaultHost
	}
	return &AccountService{
		catalog:     c,
		server:      server,
		defaultHost: defaultHost,
		logger:      logger.With().Str("component", "account-manager").Logger(),
	}
}

func (s *AccountService) Get(ctx context.Context, id string) (*model.DatabaseUser, error) {
	return s.catalog.GetDatabaseUser(ctx, id)
}

func (s *AccountService) List(ctx context.Context) ([]model.DatabaseUser, error) {
	return s.catalog.ListDatabaseUsers(ctx)
}

// CreateAccount inserts the tracking row and, if a password is given, issues
// CREATE USER. ErrAlreadyExists is returned for a duplicate (username, host).
func (s *AccountService) CreateAccount(ctx context.Context, p CreateAccountParams) (*model.DatabaseUser, error) {
	host := strings.TrimSpace(p.Host)
	if host == "" {
		host = s.defaultHost
	}
	user := &model.DatabaseUser{
		ID:          platform.NewID(),
		Username:    strings.TrimSpace(p.Username),
		Host:        host,
		Description: p.Description,
		CreatedAt:   time.Now().UTC(),
	}

	nativeCreated := false
	err := s.catalog.InTx(ctx, func(tx catalog.Catalog) error {
		_, err := tx.FindDatabaseUser(ctx, user.Username, user.Host)
		switch {
		case err == nil:
			return fmt.Errorf("database user %s: %w", user.Key(), model.ErrAlreadyExists)
		case !errors.Is(err, model.ErrNotFound):
			return err
		}

		if err := tx.CreateDatabaseUser(ctx, user); err != nil {
			return err
		}
		if p.Password == "" {
			return nil
		}
		if err := s.server.CreateUser(ctx, accountOf(user), p.Password); err != nil {
			return fmt.Errorf("create native account %s: %w", user.Key(), err)
		}
		nativeCreated = true
		return nil
	})
	if err != nil {
		if nativeCreated {
			s.logger.Error().Err(err).Str("user", user.Username).Str("host", user.Host).
				Msg("native account created but bookkeeping rolled back")
		}
		return nil, err
	}

	s.logger.Info().Str("user", user.Username).Str("host", user.Host).
		Bool("native", nativeCreated).Msg("tracked account created")
	return user, nil
}

// DeleteAccount drops the native account, tolerating its absence, and removes
// the tracking row. found is false when no such tracked account exists.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) (found bool, err error) {
	var user *model.DatabaseUser
	err = s.catalog.InTx(ctx, func(tx catalog.Catalog) error {
		u, err := tx.GetDatabaseUser(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		user = u

		if _, err := s.server.DropUser(ctx, accountOf(u)); err != nil {
			return fmt.Errorf("drop native account %s: %w", u.Key(), err)
		}
		return tx.DeleteDatabaseUser(ctx, id)
	})
	if err != nil {
		if user != nil {
			s.logger.Error().Err(err).Str("user", user.Username).Str("host", user.Host).
				Msg("delete tracked account failed")
		}
		return false, err
	}
	if user == nil {
		return false, nil
	}

	s.logger.Info().Str("user", user.Username).Str("host", user.Host).Msg("tracked account deleted")
	return true, nil
}

// SyncAccounts creates every tracked account missing on the server with
// defaultPassword. Existing native accounts are never touched. Per-account
// failures are collected; a lost connection aborts.
func (s *AccountService) SyncAccounts(ctx context.Context, defaultPassword string) (*model.SyncReport, error) {
	tracked, err := s.catalog.ListDatabaseUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync accounts: %w", err)
	}
	existing, err := s.server.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync accounts: list native accounts: %w", err)
	}

	onServer := make(map[string]bool, len(existing))
	for _, a := range existing {
		onServer[a.Key()] = true
	}

	report := &model.SyncReport{Created: []string{}, Existing: []string{}}
	for i := range tracked {
		account := accountOf(&tracked[i])
		if onServer[account.Key()] {
			report.Existing = append(report.Existing, account.Key())
			continue
		}
		if err := s.server.CreateUser(ctx, account, defaultPassword); err != nil {
			if errors.Is(err, model.ErrConnectionFailure) {
				return report, fmt.Errorf("sync accounts aborted at %s: %w", account.Key(), err)
			}
			s.logger.Warn().Err(err).Str("user", account.User).Str("host", account.Host).
				Msg("could not create native account")
			report.Failed = append(report.Failed, model.FailedStatement{Statement: account.Key(), Error: err.Error()})
			continue
		}
		report.Created = append(report.Created, account.Key())
	}

	if err := s.server.FlushPrivileges(ctx); err != nil {
		return report, fmt.Errorf("sync accounts: %w", err)
	}

	s.logger.Info().Int("created", len(report.Created)).Int("existing", len(report.Existing)).
		Int("failed", len(report.Failed)).Msg("account sync finished")
	return report, nil
}

