// Package refreshlog defines the permission refresh audit log Entry entity.
package refreshlog

import (
	"time"

	"github.com/fincase/aegis/id"
)

// Entry status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is a single permission refresh audit record. One entry is written
// per refresh attempt, successful or not.
type Entry struct {
	ID              id.RefreshLogID `json:"id" db:"id"`
	UserID          string          `json:"user_id" db:"user_id"`
	Status          string          `json:"status" db:"status"`
	Error           string          `json:"error,omitempty" db:"error"`
	OrgUnitCount    int             `json:"org_unit_count" db:"org_unit_count"`
	AlertTypeCount  int             `json:"alert_type_count" db:"alert_type_count"`
	ModuleCount     int             `json:"module_count" db:"module_count"`
	ReportCount     int             `json:"report_count" db:"report_count"`
	GrantCount      int             `json:"grant_count" db:"grant_count"`
	DurationNs      int64           `json:"duration_ns" db:"duration_ns"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying refresh log entries.
type QueryFilter struct {
	UserID string     `json:"user_id,omitempty"`
	Status string     `json:"status,omitempty"`
	After  *time.Time `json:"after,omitempty"`
	Before *time.Time `json:"before,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}
