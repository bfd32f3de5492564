package request

import "github.com/edvin/dbaccess/internal/model"

// AssignRole is checked by a struct-level rule so that DATABASE and TABLE
// scopes carry the targets they need.
type AssignRole struct {
	RoleID         string `json:"role_id" validate:"required"`
	ScopeType      string `json:"scope_type" validate:"required,oneof=GLOBAL DATABASE TABLE"`
	TargetDatabase string `json:"target_database" validate:"omitempty,mysql_ident"`
	TargetTable    string `json:"target_table" validate:"omitempty,mysql_ident"`
	AssignedBy     string `json:"assigned_by" validate:"max=100"`
}

func (r AssignRole) Scope() model.Scope {
	return model.Scope{Type: r.ScopeType, Database: r.TargetDatabase, Table: r.TargetTable}.Normalize()
}
