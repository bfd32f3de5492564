package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/dbaccess/internal/model"
)

const privilegeColumns = `id, name, description, privilege_type, target_database, target_table,
	mysql_privilege, is_global, created_at`

const prefixedPrivilegeColumns = `p.id, p.name, p.description, p.privilege_type, p.target_database,
	p.target_table, p.mysql_privilege, p.is_global, p.created_at`

func scanPrivilege(row pgx.Row) (*model.Privilege, error) {
	var p model.Privilege
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PrivilegeType, &p.TargetDatabase,
		&p.TargetTable, &p.MySQLPrivilege, &p.IsGlobal, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPrivileges(rows pgx.Rows, what string) ([]model.Privilege, error) {
	defer rows.Close()

	var privs []model.Privilege
	for rows.Next() {
		p, err := scanPrivilege(rows)
		if err != nil {
			return nil, mapError(err, "scan privilege for %s", what)
		}
		privs = append(privs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate privileges for %s", what)
	}
	return privs, nil
}

func (s *Store) CreatePrivilege(ctx context.Context, p *model.Privilege) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO privileges (id, name, description, privilege_type, target_database, target_table,
		   mysql_privilege, is_global, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, p.PrivilegeType, model.CleanTarget(p.TargetDatabase),
		model.CleanTarget(p.TargetTable), p.MySQLPrivilege, p.IsGlobal, p.CreatedAt,
	)
	if err != nil {
		return mapError(err, "insert privilege %q", p.Name)
	}
	return nil
}

func (s *Store) GetPrivilege(ctx context.Context, id string) (*model.Privilege, error) {
	p, err := scanPrivilege(s.db.QueryRow(ctx, `SELECT `+privilegeColumns+` FROM privileges WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get privilege %s", id)
	}
	return p, nil
}

func (s *Store) GetPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error) {
	p, err := scanPrivilege(s.db.QueryRow(ctx, `SELECT `+privilegeColumns+` FROM privileges WHERE name = $1`, name))
	if err != nil {
		return nil, mapError(err, "get privilege %q", name)
	}
	return p, nil
}

func (s *Store) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	rows, err := s.db.Query(ctx, `SELECT `+privilegeColumns+` FROM privileges ORDER BY name`)
	if err != nil {
		return nil, mapError(err, "list privileges")
	}
	return collectPrivileges(rows, "catalog")
}

// DeletePrivilege removes a privilege. Privileges still linked to a role are
// refused with ErrInUse.
func (s *Store) DeletePrivilege(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM privileges WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete privilege %s", id)
	}
	return requireAffected(tag, "delete privilege %s", id)
}
