package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
)

// Resolver computes the native privilege obligations of a tracked account.
type Resolver struct {
	catalog catalog.Catalog
	logger  zerolog.Logger
}

func NewResolver(c catalog.Catalog, logger zerolog.Logger) *Resolver {
	return &Resolver{
		catalog: c,
		logger:  logger.With().Str("component", "privilege-resolver").Logger(),
	}
}

// ResolveEffectivePrivileges returns the role-derived and direct privileges of
// a user. The two sets are read concurrently and kept apart because they are
// revoked through different paths.
func (r *Resolver) ResolveEffectivePrivileges(ctx context.Context, dbUserID string) (*model.EffectivePrivileges, error) {
	if _, err := r.catalog.GetDatabaseUser(ctx, dbUserID); err != nil {
		return nil, fmt.Errorf("resolve effective privileges: %w", err)
	}

	out := &model.EffectivePrivileges{DBUserID: dbUserID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grants, err := r.catalog.ListUserRolePrivileges(gctx, dbUserID)
		if err != nil {
			return err
		}
		out.RolePrivileges = grants
		return nil
	})
	g.Go(func() error {
		direct, err := r.catalog.ListUserPrivileges(gctx, dbUserID)
		if err != nil {
			return err
		}
		out.DirectPrivileges = direct
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve effective privileges for %s: %w", dbUserID, err)
	}

	if out.RolePrivileges == nil {
		out.RolePrivileges = []model.RolePrivilegeGrant{}
	}
	if out.DirectPrivileges == nil {
		out.DirectPrivileges = []model.UserSpecificPrivilege{}
	}
	r.logger.Debug().
		Str("db_user_id", dbUserID).
		Int("role_privileges", len(out.RolePrivileges)).
		Int("direct_privileges", len(out.DirectPrivileges)).
		Msg("resolved effective privileges")
	return out, nil
}
