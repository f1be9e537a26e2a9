package order

import "github.com/google/uuid"

// newID returns a random order ID.
func newID() string {
	return uuid.NewString()
}
