package request

type CreatePrivilege struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"max=500"`
	PrivilegeType  string `json:"privilege_type" validate:"required,oneof=DATABASE TABLE COLUMN ROUTINE"`
	TargetDatabase string `json:"target_database" validate:"omitempty,mysql_ident"`
	TargetTable    string `json:"target_table" validate:"omitempty,mysql_ident"`
	MySQLPrivilege string `json:"mysql_privilege" validate:"max=64"`
	IsGlobal       bool   `json:"is_global"`
}
