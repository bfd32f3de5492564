package request

type CreateRole struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"max=500"`
	IsDatabaseRole bool   `json:"is_database_role"`
}

type LinkRolePrivilege struct {
	PrivilegeID string `json:"privilege_id" validate:"required"`
}
