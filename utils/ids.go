package utils

import "github.com/google/uuid"

// NewID returns a random identifier for users, notes and uploaded files.
func NewID() string {
	return uuid.NewString()
}
