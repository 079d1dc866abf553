// Package alerttype defines the AlertType entity and its store interface.
// Alert types live in the document store alongside permission documents;
// entity-action mappings reference them by key.
package alerttype

import (
	"errors"
	"time"

	"github.com/fincase/aegis/id"
)

// ErrNotFound is returned when an alert type cannot be found.
var ErrNotFound = errors.New("alerttype: alert type not found")

// AlertType classifies alerts (e.g. a fraud category). Permissions on
// alert types are additionally scoped per org unit.
type AlertType struct {
	ID        id.AlertTypeID `json:"id"`
	Key       string         `json:"key"`
	Name      string         `json:"name"`
	Category  string         `json:"category,omitempty"`
	IsEnabled bool           `json:"is_enabled"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ListFilter contains filters for listing alert types.
type ListFilter struct {
	Category  string `json:"category,omitempty"`
	IsEnabled *bool  `json:"is_enabled,omitempty"`
	Search    string `json:"search,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}
