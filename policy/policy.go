// Package policy defines the Policy entity, its entity-action mappings,
// and their store interface.
package policy

import (
	"errors"
	"time"

	"github.com/fincase/aegis/id"
)

// ErrNotFound is returned when a policy cannot be found.
var ErrNotFound = errors.New("policy: policy not found")

// ErrMappingNotFound is returned when an entity-action mapping cannot be found.
var ErrMappingNotFound = errors.New("policy: entity mapping not found")

// Entity type constants recognized by the permission aggregator. Grants on
// EntityAlertTypes are additionally scoped per org unit; anything outside
// this fixed set lands in the open additional-permissions bucket.
const (
	EntityAlertTypes = "alert-types"
	EntityModules    = "modules"
	EntityReports    = "reports"
)

// Policy is a named bundle of entity-action grants. Roles bind zero or
// more policies; the aggregator flattens them per role.
type Policy struct {
	ID          id.PolicyID    `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description,omitempty" db:"description"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	Metadata    map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// EntityMapping is a single grant tuple attached to a policy: the entity
// type it targets, the entity identifier within that type, the action
// name, and an optional condition. Condition is opaque to the aggregation
// core; an absent condition is stored as the empty string, never null.
type EntityMapping struct {
	ID         id.MappingID `json:"id" db:"id"`
	PolicyID   id.PolicyID  `json:"policy_id" db:"policy_id"`
	EntityType string       `json:"entity_type" db:"entity_type"`
	EntityID   string       `json:"entity_id" db:"entity_id"`
	Action     string       `json:"action" db:"action"`
	Condition  string       `json:"condition,omitempty" db:"condition"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// ListFilter contains filters for listing policies.
type ListFilter struct {
	IsActive *bool  `json:"is_active,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
