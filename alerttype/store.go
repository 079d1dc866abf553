package alerttype

import (
	"context"

	"github.com/fincase/aegis/id"
)

// Store defines persistence operations for alert types.
type Store interface {
	// CreateAlertType persists a new alert type.
	CreateAlertType(ctx context.Context, at *AlertType) error

	// GetAlertType retrieves an alert type by ID.
	GetAlertType(ctx context.Context, alertTypeID id.AlertTypeID) (*AlertType, error)

	// GetAlertTypeByKey retrieves an alert type by its key.
	GetAlertTypeByKey(ctx context.Context, key string) (*AlertType, error)

	// UpdateAlertType persists changes to an alert type.
	UpdateAlertType(ctx context.Context, at *AlertType) error

	// DeleteAlertType removes an alert type by ID.
	DeleteAlertType(ctx context.Context, alertTypeID id.AlertTypeID) error

	// ListAlertTypes returns alert types matching the filter.
	ListAlertTypes(ctx context.Context, filter *ListFilter) ([]*AlertType, error)
}
