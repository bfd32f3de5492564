package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/dbaccess/internal/model"
)

// DB is satisfied by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Catalog is the bookkeeping store for roles, privileges, tracked accounts and
// their assignments.
type Catalog interface {
	// InTx runs fn against a transactional view of the catalog. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Catalog) error) error

	CreateRole(ctx context.Context, role *model.Role) error
	GetRole(ctx context.Context, id string) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	DeleteRole(ctx context.Context, id string) error

	CreatePrivilege(ctx context.Context, p *model.Privilege) error
	GetPrivilege(ctx context.Context, id string) (*model.Privilege, error)
	GetPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error)
	ListPrivileges(ctx context.Context) ([]model.Privilege, error)
	DeletePrivilege(ctx context.Context, id string) error

	AddRolePrivilege(ctx context.Context, roleID, privilegeID string) (bool, error)
	RemoveRolePrivilege(ctx context.Context, roleID, privilegeID string) error
	ListRolePrivileges(ctx context.Context, roleID string) ([]model.Privilege, error)

	CreateDatabaseUser(ctx context.Context, u *model.DatabaseUser) error
	GetDatabaseUser(ctx context.Context, id string) (*model.DatabaseUser, error)
	FindDatabaseUser(ctx context.Context, username, host string) (*model.DatabaseUser, error)
	ListDatabaseUsers(ctx context.Context) ([]model.DatabaseUser, error)
	DeleteDatabaseUser(ctx context.Context, id string) error

	InsertUserRole(ctx context.Context, a *model.DatabaseUserRole) (*model.DatabaseUserRole, bool, error)
	GetUserRole(ctx context.Context, id string) (*model.DatabaseUserRole, error)
	ListUserRoles(ctx context.Context, dbUserID string) ([]model.DatabaseUserRole, error)
	DeleteUserRole(ctx context.Context, id string) error

	InsertUserPrivilege(ctx context.Context, p *model.UserSpecificPrivilege) (*model.UserSpecificPrivilege, bool, error)
	GetUserPrivilege(ctx context.Context, id string) (*model.UserSpecificPrivilege, error)
	ListUserPrivileges(ctx context.Context, dbUserID string) ([]model.UserSpecificPrivilege, error)
	DeleteUserPrivilege(ctx context.Context, id string) error

	ListUserRolePrivileges(ctx context.Context, dbUserID string) ([]model.RolePrivilegeGrant, error)
	ListUserRolePrivilegeUnion(ctx context.Context, dbUserID string) ([]model.Privilege, error)
}

// Postgres SQLSTATE codes mapped onto the error taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store implements Catalog on Postgres.
type Store struct {
	db DB
}

// NewStore creates a new Store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

var _ Catalog = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(Catalog) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&Store{db: tx})
	})
}

// mapError translates driver errors into the model taxonomy.
func mapError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, model.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", msg, model.ErrAlreadyExists)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", msg, model.ErrInUse, pgErr.Detail)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// requireAffected turns a zero-row DELETE into ErrNotFound.
func requireAffected(tag pgconn.CommandTag, format string, args ...any) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), model.ErrNotFound)
	}
	return nil
}
