package model

import "time"

// Privilege types.
const (
	PrivilegeTypeDatabase = "DATABASE"
	PrivilegeTypeTable    = "TABLE"
	PrivilegeTypeColumn   = "COLUMN"
	PrivilegeTypeRoutine  = "ROUTINE"
)

// Privilege is a template naming a native capability. It may pin the grant to
// a database or table ahead of time.
type Privilege struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	PrivilegeType  string    `json:"privilege_type" db:"privilege_type"`
	TargetDatabase string    `json:"target_database,omitempty" db:"target_database"`
	TargetTable    string    `json:"target_table,omitempty" db:"target_table"`
	MySQLPrivilege string    `json:"mysql_privilege" db:"mysql_privilege"`
	IsGlobal       bool      `json:"is_global" db:"is_global"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ValidPrivilegeType reports whether t is one of the known privilege types.
func ValidPrivilegeType(t string) bool {
	switch t {
	case PrivilegeTypeDatabase, PrivilegeTypeTable, PrivilegeTypeColumn, PrivilegeTypeRoutine:
		return true
	}
	return false
}
