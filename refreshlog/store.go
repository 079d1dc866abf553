package refreshlog

import (
	"context"
	"time"
)

// Store defines persistence operations for refresh log entries.
type Store interface {
	// RecordRefresh persists a refresh log entry.
	RecordRefresh(ctx context.Context, e *Entry) error

	// QueryRefreshLog returns entries matching the filter, newest first.
	QueryRefreshLog(ctx context.Context, filter *QueryFilter) ([]*Entry, error)

	// CountRefreshLog returns the number of entries matching the filter.
	CountRefreshLog(ctx context.Context, filter *QueryFilter) (int64, error)

	// PurgeRefreshLog removes entries created before the given time and
	// returns how many were deleted.
	PurgeRefreshLog(ctx context.Context, before time.Time) (int64, error)
}
