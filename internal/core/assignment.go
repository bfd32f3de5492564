package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
	"github.com/edvin/dbaccess/internal/platform"
)

// AssignRoleParams describes a scoped role assignment.
type AssignRoleParams struct {
	DBUserID   string
	RoleID     string
	Scope      model.Scope
	AssignedBy string
}

// AssignmentResult is the outcome of AssignScopedRole. Report is nil when the
// assignment already existed and nothing was sent to the server.
type AssignmentResult struct {
	Assignment *model.DatabaseUserRole `json:"assignment"`
	Created    bool                    `json:"created"`
	Report     *model.ApplyReport      `json:"report,omitempty"`
}

// AssignmentService assigns and revokes scoped roles.
type AssignmentService struct {
	catalog catalog.Catalog
	sync    *Synchronizer
	logger  zerolog.Logger
}

func NewAssignmentService(c catalog.Catalog, sync *Synchronizer, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		catalog: c,
		sync:    sync,
		logger:  logger.With().Str("component", "assignment").Logger(),
	}
}

func (s *AssignmentService) List(ctx context.Context, dbUserID string) ([]model.DatabaseUserRole, error) {
	if _, err := s.catalog.GetDatabaseUser(ctx, dbUserID); err != nil {
		return nil, err
	}
	return s.catalog.ListUserRoles(ctx, dbUserID)
}

// AssignScopedRole records the assignment and grants the role's privileges.
// Re-assigning an identical tuple returns the existing row and issues nothing.
func (s *AssignmentService) AssignScopedRole(ctx context.Context, p AssignRoleParams) (*AssignmentResult, error) {
	scope := p.Scope.Normalize()
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var result *AssignmentResult
	err := s.catalog.InTx(ctx, func(tx catalog.Catalog) error {
		if _, err := tx.GetDatabaseUser(ctx, p.DBUserID); err != nil {
			return err
		}
		if _, err := tx.GetRole(ctx, p.RoleID); err != nil {
			return err
		}

		row, created, err := tx.InsertUserRole(ctx, &model.DatabaseUserRole{
			ID:             platform.NewID(),
			DBUserID:       p.DBUserID,
			RoleID:         p.RoleID,
			ScopeType:      scope.Type,
			TargetDatabase: scope.Database,
			TargetTable:    scope.Table,
			AssignedAt:     time.Now().UTC(),
			AssignedBy:     strings.TrimSpace(p.AssignedBy),
		})
		if err != nil {
			return err
		}
		result = &AssignmentResult{Assignment: row, Created: created}
		if !created {
			return nil
		}

		report, err := s.sync.withCatalog(tx).ApplyRolePrivileges(ctx, p.DBUserID, p.RoleID, scope)
		result.Report = report
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("assign role %s to %s at %s: %w", p.RoleID, p.DBUserID, scope, err)
	}

	if !result.Created {
		s.logger.Debug().Str("assignment_id", result.Assignment.ID).Msg("assignment already exists")
	} else {
		s.logger.Info().Str("assignment_id", result.Assignment.ID).Str("db_user_id", p.DBUserID).
			Str("role_id", p.RoleID).Str("scope", scope.String()).Msg("role assigned")
	}
	return result, nil
}

// RevokeScopedRole revokes the role's grants and then deletes the assignment.
// If the native revoke is aborted the assignment is kept. Grants another
// assignment or a direct privilege of the same user still needs are left in
// place, and narrower grants stripped by an ALL PRIVILEGES revoke are reissued.
func (s *AssignmentService) RevokeScopedRole(ctx context.Context, dbUserID, assignmentID string) (*model.ApplyReport, error) {
	var report *model.ApplyReport
	err := s.catalog.InTx(ctx, func(tx catalog.Catalog) error {
		a, err := tx.GetUserRole(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a.DBUserID != dbUserID {
			return fmt.Errorf("assignment %s of %s: %w", assignmentID, dbUserID, model.ErrNotFound)
		}

		retain, err := heldGrants(ctx, tx, dbUserID, assignmentID, "")
		if err != nil {
			return err
		}
		report, err = s.sync.withCatalog(tx).revokeRolePrivileges(ctx, dbUserID, a.RoleID, a.Scope(), retain)
		if err != nil {
			return err
		}
		return tx.DeleteUserRole(ctx, assignmentID)
	})
	if err != nil {
		return report, fmt.Errorf("revoke assignment %s: %w", assignmentID, err)
	}

	s.logger.Info().Str("assignment_id", assignmentID).Str("db_user_id", dbUserID).
		Int("statements", len(report.Statements)).Int("failed", len(report.Failed)).Msg("role assignment revoked")
	return report, nil
}
