package catalog

import (
	"context"

	"github.com/edvin/dbaccess/internal/model"
)

// ListUserRolePrivileges returns every privilege reachable through the user's
// role assignments, one entry per (privilege, assignment scope). Roles that
// contribute the same privilege at the same scope are merged into one entry.
func (s *Store) ListUserRolePrivileges(ctx context.Context, dbUserID string) ([]model.RolePrivilegeGrant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+prefixedPrivilegeColumns+`, a.scope_type, a.target_database, a.target_table, r.name
		 FROM database_user_roles a
		 JOIN roles r ON r.id = a.role_id
		 JOIN role_privileges rp ON rp.role_id = a.role_id
		 JOIN privileges p ON p.id = rp.privilege_id
		 WHERE a.db_user_id = $1
		 ORDER BY p.name, a.scope_type, a.target_database, a.target_table, r.name`, dbUserID,
	)
	if err != nil {
		return nil, mapError(err, "resolve role privileges for %s", dbUserID)
	}
	defer rows.Close()

	type grantKey struct {
		privilegeID string
		scope       model.Scope
	}
	index := make(map[grantKey]int)
	var grants []model.RolePrivilegeGrant
	for rows.Next() {
		var (
			p        model.Privilege
			scope    model.Scope
			roleName string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PrivilegeType, &p.TargetDatabase,
			&p.TargetTable, &p.MySQLPrivilege, &p.IsGlobal, &p.CreatedAt,
			&scope.Type, &scope.Database, &scope.Table, &roleName); err != nil {
			return nil, mapError(err, "scan role privilege")
		}
		key := grantKey{privilegeID: p.ID, scope: scope}
		if i, ok := index[key]; ok {
			grants[i].Roles = append(grants[i].Roles, roleName)
			continue
		}
		index[key] = len(grants)
		grants = append(grants, model.RolePrivilegeGrant{Privilege: p, Scope: scope, Roles: []string{roleName}})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate role privileges for %s", dbUserID)
	}
	return grants, nil
}

// ListUserRolePrivilegeUnion returns the distinct privileges of every role the
// user holds, ignoring assignment scope.
func (s *Store) ListUserRolePrivilegeUnion(ctx context.Context, dbUserID string) ([]model.Privilege, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT `+prefixedPrivilegeColumns+`
		 FROM database_user_roles a
		 JOIN role_privileges rp ON rp.role_id = a.role_id
		 JOIN privileges p ON p.id = rp.privilege_id
		 WHERE a.db_user_id = $1
		 ORDER BY p.name`, dbUserID,
	)
	if err != nil {
		return nil, mapError(err, "resolve privilege union for %s", dbUserID)
	}
	return collectPrivileges(rows, "user "+dbUserID)
}
