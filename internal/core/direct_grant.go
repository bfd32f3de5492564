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
	"github.com/edvin/dbaccess/internal/native"
	"github.com/edvin/dbaccess/internal/platform"
)

// GrantDirectParams describes a one-off grant outside the role system.
type GrantDirectParams struct {
	DBUserID       string
	Privilege      string
	TargetDatabase string
	TargetTable    string
	GrantedBy      string
}

// DirectGrantResult is the outcome of GrantDirect. Statement is empty when the
// grant already existed.
type DirectGrantResult struct {
	Privilege *model.UserSpecificPrivilege `json:"privilege"`
	Created   bool                         `json:"created"`
	Statement string                       `json:"statement,omitempty"`
}

// DirectGrantService attaches single privileges to a database or table.
type DirectGrantService struct {
	catalog catalog.Catalog
	server  NativeServer
	logger  zerolog.Logger
}

func NewDirectGrantService(c catalog.Catalog, server NativeServer, logger zerolog.Logger) *DirectGrantService {
	return &DirectGrantService{
		catalog: c,
		server:  server,
		logger:  logger.With().Str("component", "direct-grants").Logger(),
	}
}

func (s *DirectGrantService) List(ctx context.Context, dbUserID string) ([]model.UserSpecificPrivilege, error) {
	if _, err := s.catalog.GetDatabaseUser(ctx, dbUserID); err != nil {
		return nil, err
	}
	return s.catalog.ListUserPrivileges(ctx, dbUserID)
}

// GrantDirect records and issues a single grant. An identical grant that is
// already recorded is returned as is without touching the server.
func (s *DirectGrantService) GrantDirect(ctx context.Context, p GrantDirectParams) (*DirectGrantResult, error) {
	keyword := NativeKeyword(p.Privilege)
	if err := validKeyword(keyword); err != nil {
		return nil, err
	}
	scope := model.DatabaseScope(p.TargetDatabase)
	if model.CleanTarget(p.TargetTable) != "" {
		scope = model.TableScope(p.TargetDatabase, p.TargetTable)
	}
	scope = scope.Normalize()
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	object, widened, err := ResolveScopeStatement(keyword, scope)
	if err != nil {
		return nil, err
	}

	var result *DirectGrantResult
	err = s.catalog.InTx(ctx, func(tx catalog.Catalog) error {
		user, err := tx.GetDatabaseUser(ctx, p.DBUserID)
		if err != nil {
			return err
		}
		row, created, err := tx.InsertUserPrivilege(ctx, &model.UserSpecificPrivilege{
			ID:             platform.NewID(),
			DBUserID:       p.DBUserID,
			PrivilegeType:  keyword,
			TargetDatabase: scope.Database,
			TargetTable:    scope.Table,
			GrantedAt:      time.Now().UTC(),
			GrantedBy:      strings.TrimSpace(p.GrantedBy),
		})
		if err != nil {
			return err
		}
		result = &DirectGrantResult{Privilege: row, Created: created}
		if !created {
			return nil
		}

		account := accountOf(user)
		if widened {
			s.logger.Warn().Str("user", account.User).Str("host", account.Host).
				Str("privilege", keyword).Str("requested_scope", scope.String()).
				Msg("global-only privilege widened to *.*")
		}
		stmt, err := s.server.Grant(ctx, keyword, object, account)
		if err != nil {
			return err
		}
		result.Statement = stmt
		return flushBestEffort(ctx, s.server, s.logger)
	})
	if err != nil {
		return nil, fmt.Errorf("grant %s on %s to %s: %w", keyword, object, p.DBUserID, err)
	}
	return result, nil
}

// RevokeDirect revokes a direct grant and deletes its row. The row is kept
// when the server refuses the revoke, except when there was nothing to revoke.
// A grant an assignment or another direct privilege still covers is not
// revoked, only the row goes.
func (s *DirectGrantService) RevokeDirect(ctx context.Context, dbUserID, id string) error {
	err := s.catalog.InTx(ctx, func(tx catalog.Catalog) error {
		row, err := tx.GetUserPrivilege(ctx, id)
		if err != nil {
			return err
		}
		if row.DBUserID != dbUserID {
			return fmt.Errorf("direct privilege %s of %s: %w", id, dbUserID, model.ErrNotFound)
		}
		user, err := tx.GetDatabaseUser(ctx, dbUserID)
		if err != nil {
			return err
		}

		keyword := NativeKeyword(row.PrivilegeType)
		object, _, err := ResolveScopeStatement(keyword, row.Scope())
		if err != nil {
			return err
		}
		held, err := heldGrants(ctx, tx, dbUserID, "", id)
		if err != nil {
			return err
		}
		account := accountOf(user)
		if held.covers(keyword, object) {
			s.logger.Info().Str("direct_privilege_id", id).Str("privilege", keyword).Str("object", object).
				Msg("grant still held through another source, leaving it on server")
		} else {
			if _, err := s.server.Revoke(ctx, keyword, object, account); err != nil {
				if !native.IsMissingGrant(err) {
					return err
				}
				s.logger.Warn().Err(err).Str("direct_privilege_id", id).Msg("grant already absent on server")
			}
			restore := restoreAfterRevoke([]nativeStatement{{keyword: keyword, object: object}}, held)
			for _, n := range restore {
				if _, err := s.server.Grant(ctx, n.keyword, n.object, account); err != nil {
					if errors.Is(err, model.ErrConnectionFailure) {
						return err
					}
					s.logger.Warn().Err(err).Str("direct_privilege_id", id).Str("privilege", n.keyword).
						Str("object", n.object).Msg("restoring grant after ALL PRIVILEGES revoke failed")
				}
			}
		}
		if err := tx.DeleteUserPrivilege(ctx, id); err != nil {
			return err
		}
		return flushBestEffort(ctx, s.server, s.logger)
	})
	if err != nil {
		return fmt.Errorf("revoke direct privilege %s: %w", id, err)
	}
	return nil
}

// flushBestEffort flushes privileges, failing only when the connection is gone.
func flushBestEffort(ctx context.Context, server NativeServer, logger zerolog.Logger) error {
	err := server.FlushPrivileges(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrConnectionFailure) {
		return fmt.Errorf("flush privileges: %w", err)
	}
	logger.Warn().Err(err).Msg("flush privileges failed")
	return nil
}
