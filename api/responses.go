package api

import (
	"github.com/fincase/aegis/refreshlog"
)

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}

// RefreshResponse reports the outcome of a permission refresh.
type RefreshResponse struct {
	UserID     string `json:"user_id" description:"User whose document was refreshed"`
	Refreshed  bool   `json:"refreshed" description:"Whether the refresh completed"`
	GrantCount int    `json:"grant_count" description:"Total grants in the new document"`
}

// OrgIDsResponse carries the distinct org unit ids a user holds roles in.
type OrgIDsResponse struct {
	UserID string   `json:"user_id" description:"User ID"`
	OrgIDs []string `json:"org_ids" description:"Distinct org unit IDs, sorted"`
}

// OrgKeysResponse carries the distinct org unit keys a user holds roles in.
type OrgKeysResponse struct {
	UserID  string   `json:"user_id" description:"User ID"`
	OrgKeys []string `json:"org_keys" description:"Distinct org unit keys, sorted"`
}

// RefreshLogResponse wraps refresh log entries with pagination metadata.
type RefreshLogResponse struct {
	Entries []*refreshlog.Entry `json:"entries" description:"Refresh log entries, newest first"`
	Total   int64               `json:"total" description:"Total matching entries"`
	Limit   int                 `json:"limit" description:"Page size"`
	Offset  int                 `json:"offset" description:"Page offset"`
}

// PurgeResponse reports how many refresh log entries were removed.
type PurgeResponse struct {
	Purged int64 `json:"purged" description:"Number of entries removed"`
}
