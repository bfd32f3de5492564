package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/dbaccess/internal/model"
)

const databaseUserColumns = `id, username, host, description, created_at`

func scanDatabaseUser(row pgx.Row) (*model.DatabaseUser, error) {
	var u model.DatabaseUser
	if err := row.Scan(&u.ID, &u.Username, &u.Host, &u.Description, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateDatabaseUser(ctx context.Context, u *model.DatabaseUser) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO database_users (id, username, host, description, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Host, u.Description, u.CreatedAt,
	)
	if err != nil {
		return mapError(err, "insert database user %s", u.Key())
	}
	return nil
}

func (s *Store) GetDatabaseUser(ctx context.Context, id string) (*model.DatabaseUser, error) {
	u, err := scanDatabaseUser(s.db.QueryRow(ctx,
		`SELECT `+databaseUserColumns+` FROM database_users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get database user %s", id)
	}
	return u, nil
}

func (s *Store) FindDatabaseUser(ctx context.Context, username, host string) (*model.DatabaseUser, error) {
	u, err := scanDatabaseUser(s.db.QueryRow(ctx,
		`SELECT `+databaseUserColumns+` FROM database_users WHERE username = $1 AND host = $2`,
		username, host))
	if err != nil {
		return nil, mapError(err, "find database user %s@%s", username, host)
	}
	return u, nil
}

func (s *Store) ListDatabaseUsers(ctx context.Context) ([]model.DatabaseUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+databaseUserColumns+` FROM database_users ORDER BY username, host`)
	if err != nil {
		return nil, mapError(err, "list database users")
	}
	defer rows.Close()

	var users []model.DatabaseUser
	for rows.Next() {
		u, err := scanDatabaseUser(rows)
		if err != nil {
			return nil, mapError(err, "scan database user")
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate database users")
	}
	return users, nil
}

// DeleteDatabaseUser removes the tracking row together with its assignments and
// direct privileges.
func (s *Store) DeleteDatabaseUser(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM database_users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete database user %s", id)
	}
	return requireAffected(tag, "delete database user %s", id)
}
