package model

import "time"

// DefaultHost is the MySQL host pattern used when an account is tracked without one.
const DefaultHost = "%"

// DatabaseUser is the application's record of a server account. The native
// account it describes may or may not exist on the server.
type DatabaseUser struct {
	ID          string    `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Host        string    `json:"host" db:"host"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Key returns the (username, host) identity used to match tracked and native accounts.
func (u *DatabaseUser) Key() string {
	return u.Username + "@" + u.Host
}
