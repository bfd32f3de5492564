package model

import "time"

// DatabaseUserRole is a scoped role assignment. The tuple (db_user_id, role_id,
// scope_type, target_database, target_table) is unique.
type DatabaseUserRole struct {
	ID             string    `json:"assignment_id" db:"id"`
	DBUserID       string    `json:"db_user_id" db:"db_user_id"`
	RoleID         string    `json:"role_id" db:"role_id"`
	ScopeType      string    `json:"scope_type" db:"scope_type"`
	TargetDatabase string    `json:"target_database,omitempty" db:"target_database"`
	TargetTable    string    `json:"target_table,omitempty" db:"target_table"`
	AssignedAt     time.Time `json:"assigned_at" db:"assigned_at"`
	AssignedBy     string    `json:"assigned_by,omitempty" db:"assigned_by"`
}

// Scope returns the assignment's scope.
func (r *DatabaseUserRole) Scope() Scope {
	return Scope{Type: r.ScopeType, Database: r.TargetDatabase, Table: r.TargetTable}
}
