package model

import "time"

// UserSpecificPrivilege is a one-off native grant attached directly to a
// tracked account, outside the role system.
type UserSpecificPrivilege struct {
	ID             string    `json:"id" db:"id"`
	DBUserID       string    `json:"db_user_id" db:"db_user_id"`
	PrivilegeType  string    `json:"privilege_type" db:"privilege_type"`
	TargetDatabase string    `json:"target_database" db:"target_database"`
	TargetTable    string    `json:"target_table,omitempty" db:"target_table"`
	GrantedAt      time.Time `json:"granted_at" db:"granted_at"`
	GrantedBy      string    `json:"granted_by,omitempty" db:"granted_by"`
}

// Scope returns the narrowest scope covering the grant's target.
func (p *UserSpecificPrivilege) Scope() Scope {
	if CleanTarget(p.TargetTable) != "" {
		return TableScope(p.TargetDatabase, p.TargetTable)
	}
	return DatabaseScope(p.TargetDatabase)
}
