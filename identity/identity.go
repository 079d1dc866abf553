// Package identity defines the User entity and its store interface.
package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/fincase/aegis/id"
)

// ErrNotFound is returned when a user cannot be found.
var ErrNotFound = errors.New("identity: user not found")

// User represents a person who can hold org-role assignments and whose
// permission document is aggregated from them.
type User struct {
	ID        id.UserID      `json:"id" db:"id"`
	FirstName string         `json:"first_name" db:"first_name"`
	LastName  string         `json:"last_name" db:"last_name"`
	Email     string         `json:"email,omitempty" db:"email"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name used in permission documents.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ListFilter contains filters for listing users.
type ListFilter struct {
	IsActive *bool  `json:"is_active,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
