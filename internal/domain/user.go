package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account holder. Users are created and
// managed outside this service; the core treats them as read-only and
// only ever resolves them by ID to check account ownership.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
