package model

import "time"

type Role struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	IsDatabaseRole bool      `json:"is_database_role" db:"is_database_role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RolePrivilege links a privilege to a role.
type RolePrivilege struct {
	RoleID      string    `json:"role_id" db:"role_id"`
	PrivilegeID string    `json:"privilege_id" db:"privilege_id"`
	AssignedAt  time.Time `json:"assigned_at" db:"assigned_at"`
}
