package request

type SyncAccounts struct {
	DefaultPassword string `json:"default_password" validate:"required,min=8"`
}
