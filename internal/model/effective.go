package model

// RolePrivilegeGrant is a privilege a user holds through one or more role
// assignments at a given scope.
type RolePrivilegeGrant struct {
	Privilege Privilege `json:"privilege"`
	Scope     Scope     `json:"scope"`
	Roles     []string  `json:"roles"`
}

// EffectivePrivileges keeps role-derived and direct privileges apart; they are
// revoked through different paths.
type EffectivePrivileges struct {
	DBUserID         string                  `json:"db_user_id"`
	RolePrivileges   []RolePrivilegeGrant    `json:"role_privileges"`
	DirectPrivileges []UserSpecificPrivilege `json:"direct_privileges"`
}
