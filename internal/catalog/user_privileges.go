package catalog

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/dbaccess/internal/model"
)

const userPrivilegeColumns = `id, db_user_id, privilege_type, target_database, target_table,
	granted_at, granted_by`

func scanUserPrivilege(row pgx.Row) (*model.UserSpecificPrivilege, error) {
	var p model.UserSpecificPrivilege
	if err := row.Scan(&p.ID, &p.DBUserID, &p.PrivilegeType, &p.TargetDatabase, &p.TargetTable,
		&p.GrantedAt, &p.GrantedBy); err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertUserPrivilege records a direct grant. A duplicate grant returns the
// existing row with created=false.
func (s *Store) InsertUserPrivilege(ctx context.Context, p *model.UserSpecificPrivilege) (*model.UserSpecificPrivilege, bool, error) {
	kind := strings.ToUpper(strings.TrimSpace(p.PrivilegeType))
	database := model.CleanTarget(p.TargetDatabase)
	table := model.CleanTarget(p.TargetTable)

	tag, err := s.db.Exec(ctx,
		`INSERT INTO user_specific_privileges (id, db_user_id, privilege_type, target_database,
		   target_table, granted_at, granted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT ON CONSTRAINT user_specific_privileges_grant_key DO NOTHING`,
		p.ID, p.DBUserID, kind, database, table, p.GrantedAt, p.GrantedBy,
	)
	if err != nil {
		return nil, false, mapError(err, "insert %s grant for %s", kind, p.DBUserID)
	}
	if tag.RowsAffected() > 0 {
		created := *p
		created.PrivilegeType, created.TargetDatabase, created.TargetTable = kind, database, table
		return &created, true, nil
	}

	existing, err := scanUserPrivilege(s.db.QueryRow(ctx,
		`SELECT `+userPrivilegeColumns+` FROM user_specific_privileges
		 WHERE db_user_id = $1 AND privilege_type = $2 AND target_database = $3 AND target_table = $4`,
		p.DBUserID, kind, database, table,
	))
	if err != nil {
		return nil, false, mapError(err, "read existing %s grant for %s", kind, p.DBUserID)
	}
	return existing, false, nil
}

func (s *Store) GetUserPrivilege(ctx context.Context, id string) (*model.UserSpecificPrivilege, error) {
	p, err := scanUserPrivilege(s.db.QueryRow(ctx,
		`SELECT `+userPrivilegeColumns+` FROM user_specific_privileges WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get direct privilege %s", id)
	}
	return p, nil
}

func (s *Store) ListUserPrivileges(ctx context.Context, dbUserID string) ([]model.UserSpecificPrivilege, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userPrivilegeColumns+` FROM user_specific_privileges
		 WHERE db_user_id = $1 ORDER BY granted_at, id`, dbUserID)
	if err != nil {
		return nil, mapError(err, "list direct privileges for %s", dbUserID)
	}
	defer rows.Close()

	var out []model.UserSpecificPrivilege
	for rows.Next() {
		p, err := scanUserPrivilege(rows)
		if err != nil {
			return nil, mapError(err, "scan direct privilege")
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate direct privileges for %s", dbUserID)
	}
	return out, nil
}

func (s *Store) DeleteUserPrivilege(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM user_specific_privileges WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete direct privilege %s", id)
	}
	return requireAffected(tag, "delete direct privilege %s", id)
}
