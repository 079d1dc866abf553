// Package userperm defines the denormalized user permission document — the
// aggregation result persisted per user and consumed at
// request-authorization time — and its store interface.
package userperm

import "errors"

// ErrNotFound is returned when no permission document exists for a user.
var ErrNotFound = errors.New("userperm: permission document not found")

// Document is the root permission document, one per user. It is created
// and replaced wholesale on every refresh: upsert-by-user-id, full
// replace, never an incremental patch.
type Document struct {
	UserID     string   `json:"userId"`
	User       UserInfo `json:"user"`
	Permission Wrapper  `json:"permission"`
	Metadata   Metadata `json:"metadata"`
}

// UserInfo is denormalized display identity, informational only.
type UserInfo struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// Wrapper partitions a user's grants into four buckets by entity type.
// Exactly one bucket receives a given entity type's grants: alert-type
// grants are org-scoped, module and report grants are flat lists, and
// any unrecognized entity type lands in Additional.
type Wrapper struct {
	AlertType  map[string]AlertTypeOrgPermissions `json:"alertType,omitempty"`
	Modules    map[string][]ActionCondition       `json:"modules,omitempty"`
	Reports    map[string][]ActionCondition       `json:"reports,omitempty"`
	Additional map[string]EntityGrants            `json:"additionalPermissions,omitempty"`
}

// AlertTypeOrgPermissions holds the grants of one alert type, partitioned
// by org unit. The same alert type can carry different allowed actions
// per organization; entries under distinct org ids are fully independent.
type AlertTypeOrgPermissions struct {
	OrgID map[string]OrgActions `json:"orgId"`
}

// OrgActions maps action name to its format for one (alert type, org)
// pair. Re-inserting an action overwrites its condition: last value wins.
type OrgActions struct {
	Actions map[string]ActionFormat `json:"actions"`
}

// ActionFormat qualifies a single org-scoped action grant.
type ActionFormat struct {
	Condition string `json:"condition"`
}

// ActionCondition is an (action, condition) grant pair used for modules,
// reports and additional entity types. Equality is structural.
type ActionCondition struct {
	Action    string `json:"action"`
	Condition string `json:"condition"`
}

// EntityGrants maps entity id to its grant list within one unrecognized
// entity type. This keeps the open extensibility bucket fully typed.
type EntityGrants map[string][]ActionCondition

// Metadata carries derived sets computed during aggregation so consumers
// can answer "which orgs can this user see" without walking the full
// permission tree. The slices are sorted and must stay consistent with
// the alertType bucket's keys; they are built in the same pass.
type Metadata struct {
	UniqueAlertTypesOrgID []string `json:"uniqueAlertTypesOrgId"`
	UniqueOrgID           []string `json:"uniqueOrgId"`
	DistinctOrgKeys       []string `json:"distinctOrgKeys"`
}

// AppendUnique appends ac to list unless a structurally equal pair is
// already present. Insertion order is preserved; re-processing the same
// grant is idempotent.
func AppendUnique(list []ActionCondition, ac ActionCondition) []ActionCondition {
	for _, existing := range list {
		if existing == ac {
			return list
		}
	}
	return append(list, ac)
}

// AllowsAlertTypeAction reports whether the document grants the action on
// the alert type within the given org unit.
func (w *Wrapper) AllowsAlertTypeAction(alertTypeID, orgID, action string) bool {
	at, ok := w.AlertType[alertTypeID]
	if !ok {
		return false
	}
	oa, ok := at.OrgID[orgID]
	if !ok {
		return false
	}
	_, ok = oa.Actions[action]
	return ok
}

// AllowsModuleAction reports whether the document grants the action on
// the named module.
func (w *Wrapper) AllowsModuleAction(moduleName, action string) bool {
	return containsAction(w.Modules[moduleName], action)
}

// AllowsReportAction reports whether the document grants the action on
// the named report.
func (w *Wrapper) AllowsReportAction(reportName, action string) bool {
	return containsAction(w.Reports[reportName], action)
}

func containsAction(list []ActionCondition, action string) bool {
	for _, ac := range list {
		if ac.Action == action {
			return true
		}
	}
	return false
}

// GrantCount returns the total number of individual action grants across
// all four buckets. Used for refresh audit records.
func (w *Wrapper) GrantCount() int {
	n := 0
	for _, at := range w.AlertType {
		for _, oa := range at.OrgID {
			n += len(oa.Actions)
		}
	}
	for _, acs := range w.Modules {
		n += len(acs)
	}
	for _, acs := range w.Reports {
		n += len(acs)
	}
	for _, grants := range w.Additional {
		for _, acs := range grants {
			n += len(acs)
		}
	}
	return n
}
