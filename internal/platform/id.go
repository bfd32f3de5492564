package platform

import "github.com/google/uuid"

// NewID returns a random identifier for catalog rows.
func NewID() string {
	return uuid.New().String()
}
