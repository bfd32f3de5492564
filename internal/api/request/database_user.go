package request

type CreateDatabaseUser struct {
	Username    string `json:"username" validate:"required,mysql_name"`
	Host        string `json:"host" validate:"omitempty,mysql_host"`
	Description string `json:"description" validate:"max=500"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

type ApplyPrivileges struct {
	Database string `json:"database" validate:"omitempty,max=64"`
}
