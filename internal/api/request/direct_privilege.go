package request

type GrantDirectPrivilege struct {
	PrivilegeType  string `json:"privilege_type" validate:"required,max=64"`
	TargetDatabase string `json:"target_database" validate:"required,mysql_ident"`
	TargetTable    string `json:"target_table" validate:"omitempty,mysql_ident"`
	GrantedBy      string `json:"granted_by" validate:"max=100"`
}
