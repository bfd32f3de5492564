package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/dbaccess/internal/model"
)

const roleColumns = `id, name, description, is_database_role, created_at`

func scanRole(row pgx.Row) (*model.Role, error) {
	var r model.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.IsDatabaseRole, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateRole(ctx context.Context, role *model.Role) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO roles (id, name, description, is_database_role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		role.ID, role.Name, role.Description, role.IsDatabaseRole, role.CreatedAt,
	)
	if err != nil {
		return mapError(err, "insert role %q", role.Name)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, id string) (*model.Role, error) {
	r, err := scanRole(s.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get role %s", id)
	}
	return r, nil
}

func (s *Store) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	r, err := scanRole(s.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
	if err != nil {
		return nil, mapError(err, "get role %q", name)
	}
	return r, nil
}

func (s *Store) ListRoles(ctx context.Context) ([]model.Role, error) {
	rows, err := s.db.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, mapError(err, "list roles")
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, mapError(err, "scan role")
		}
		roles = append(roles, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate roles")
	}
	return roles, nil
}

// DeleteRole removes a role and its privilege links. Roles that still have
// scoped assignments are refused with ErrInUse.
func (s *Store) DeleteRole(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete role %s", id)
	}
	return requireAffected(tag, "delete role %s", id)
}

// AddRolePrivilege links a privilege to a role. Linking an existing pair is a
// no-op and reports created=false.
func (s *Store) AddRolePrivilege(ctx context.Context, roleID, privilegeID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO role_privileges (role_id, privilege_id, assigned_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (role_id, privilege_id) DO NOTHING`,
		roleID, privilegeID,
	)
	if err != nil {
		return false, mapError(err, "link privilege %s to role %s", privilegeID, roleID)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) RemoveRolePrivilege(ctx context.Context, roleID, privilegeID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM role_privileges WHERE role_id = $1 AND privilege_id = $2`,
		roleID, privilegeID,
	)
	if err != nil {
		return mapError(err, "unlink privilege %s from role %s", privilegeID, roleID)
	}
	return requireAffected(tag, "unlink privilege %s from role %s", privilegeID, roleID)
}

func (s *Store) ListRolePrivileges(ctx context.Context, roleID string) ([]model.Privilege, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+prefixedPrivilegeColumns+`
		 FROM role_privileges rp
		 JOIN privileges p ON p.id = rp.privilege_id
		 WHERE rp.role_id = $1
		 ORDER BY p.name`, roleID,
	)
	if err != nil {
		return nil, mapError(err, "list privileges for role %s", roleID)
	}
	return collectPrivileges(rows, "role "+roleID)
}
