package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/dbaccess/internal/model"
)

const userRoleColumns = `id, db_user_id, role_id, scope_type, target_database, target_table,
	assigned_at, assigned_by`

func scanUserRole(row pgx.Row) (*model.DatabaseUserRole, error) {
	var a model.DatabaseUserRole
	if err := row.Scan(&a.ID, &a.DBUserID, &a.RoleID, &a.ScopeType, &a.TargetDatabase,
		&a.TargetTable, &a.AssignedAt, &a.AssignedBy); err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertUserRole records a scoped assignment. When the same (user, role, scope)
// tuple is already recorded the existing row is returned with created=false.
func (s *Store) InsertUserRole(ctx context.Context, a *model.DatabaseUserRole) (*model.DatabaseUserRole, bool, error) {
	scope := a.Scope().Normalize()
	tag, err := s.db.Exec(ctx,
		`INSERT INTO database_user_roles (id, db_user_id, role_id, scope_type, target_database,
		   target_table, assigned_at, assigned_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT ON CONSTRAINT database_user_roles_assignment_key DO NOTHING`,
		a.ID, a.DBUserID, a.RoleID, scope.Type, scope.Database, scope.Table, a.AssignedAt, a.AssignedBy,
	)
	if err != nil {
		return nil, false, mapError(err, "insert assignment of role %s to %s", a.RoleID, a.DBUserID)
	}
	if tag.RowsAffected() > 0 {
		created := *a
		created.ScopeType, created.TargetDatabase, created.TargetTable = scope.Type, scope.Database, scope.Table
		return &created, true, nil
	}

	existing, err := scanUserRole(s.db.QueryRow(ctx,
		`SELECT `+userRoleColumns+` FROM database_user_roles
		 WHERE db_user_id = $1 AND role_id = $2 AND scope_type = $3
		   AND target_database = $4 AND target_table = $5`,
		a.DBUserID, a.RoleID, scope.Type, scope.Database, scope.Table,
	))
	if err != nil {
		return nil, false, mapError(err, "read existing assignment of role %s to %s", a.RoleID, a.DBUserID)
	}
	return existing, false, nil
}

func (s *Store) GetUserRole(ctx context.Context, id string) (*model.DatabaseUserRole, error) {
	a, err := scanUserRole(s.db.QueryRow(ctx,
		`SELECT `+userRoleColumns+` FROM database_user_roles WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get assignment %s", id)
	}
	return a, nil
}

func (s *Store) ListUserRoles(ctx context.Context, dbUserID string) ([]model.DatabaseUserRole, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userRoleColumns+` FROM database_user_roles
		 WHERE db_user_id = $1 ORDER BY assigned_at, id`, dbUserID)
	if err != nil {
		return nil, mapError(err, "list assignments for %s", dbUserID)
	}
	defer rows.Close()

	var out []model.DatabaseUserRole
	for rows.Next() {
		a, err := scanUserRole(rows)
		if err != nil {
			return nil, mapError(err, "scan assignment")
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate assignments for %s", dbUserID)
	}
	return out, nil
}

func (s *Store) DeleteUserRole(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM database_user_roles WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete assignment %s", id)
	}
	return requireAffected(tag, "delete assignment %s", id)
}
