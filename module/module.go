// Package module defines the application Module entity and its store
// interface. Policy mappings reference modules by ID; the aggregator
// resolves them to module names when building permission documents.
package module

import (
	"errors"
	"time"

	"github.com/fincase/aegis/id"
)

// ErrNotFound is returned when a module cannot be found.
var ErrNotFound = errors.New("module: module not found")

// Module is a functional area of the case-management application
// (e.g. alert triage, reporting, administration).
type Module struct {
	ID          id.ModuleID `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description,omitempty" db:"description"`
	IsEnabled   bool        `json:"is_enabled" db:"is_enabled"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing modules.
type ListFilter struct {
	IsEnabled *bool  `json:"is_enabled,omitempty"`
	Search    string `json:"search,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}
