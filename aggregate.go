package aegis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/userperm"
)

// Generate computes the permission document for a user without persisting
// it. The fold is deterministic: iteration order over assignments and
// policies does not affect the result, and re-running with unchanged
// underlying data yields a structurally identical document.
//
// Failure semantics: an unknown user aborts with ErrUserNotFound; a
// dangling org unit reference aborts with ErrOrgUnitNotFound; a dangling
// module reference is logged and only that grant is dropped; any other
// fault is wrapped in ErrAggregation and aborts the run.
func (e *Engine) Generate(ctx context.Context, userID id.UserID) (*userperm.Document, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, wrapAggregation(userID, err)
	}

	assignments, err := e.store.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		return nil, wrapAggregation(userID, err)
	}

	acc := newAccumulator()
	for _, a := range assignments {
		if err := e.foldAssignment(ctx, acc, a); err != nil {
			return nil, err
		}
	}

	return acc.document(user), nil
}

// foldAssignment merges one (org unit, role) assignment into the
// accumulator: the org id and key into the metadata sets, then every
// entity-action mapping of every policy bound to the role.
func (e *Engine) foldAssignment(ctx context.Context, acc *accumulator, a *assignment.Assignment) error {
	orgID := a.OrgUnitID.String()
	acc.orgIDs[orgID] = struct{}{}

	ou, err := e.store.GetOrgUnit(ctx, a.OrgUnitID)
	if err != nil {
		if errors.Is(err, orgunit.ErrNotFound) {
			return fmt.Errorf("%w: assignment %s references org unit %s", ErrOrgUnitNotFound, a.ID, orgID)
		}
		return wrapAggregation(a.UserID, err)
	}
	acc.orgKeys[ou.Key] = struct{}{}

	policies, err := e.store.ListPoliciesForRole(ctx, a.RoleID)
	if err != nil {
		return wrapAggregation(a.UserID, err)
	}

	for _, pol := range policies {
		if !pol.IsActive && !e.config.IncludeInactivePolicies {
			e.logger.Debug("skipping inactive policy",
				slog.String("policy", pol.ID.String()),
				slog.String("role", a.RoleID.String()),
			)
			continue
		}

		mappings, err := e.store.ListMappingsForPolicy(ctx, pol.ID)
		if err != nil {
			return wrapAggregation(a.UserID, err)
		}
		for _, m := range mappings {
			if err := e.foldMapping(ctx, acc, orgID, m); err != nil {
				return wrapAggregation(a.UserID, err)
			}
		}
	}
	return nil
}

// foldMapping dispatches one grant tuple into exactly one of the four
// buckets by entity type. Alert-type grants are additionally keyed by
// the org unit of the assignment being folded.
func (e *Engine) foldMapping(ctx context.Context, acc *accumulator, orgID string, m *policy.EntityMapping) error {
	switch m.EntityType {
	case policy.EntityAlertTypes:
		acc.grantAlertType(m.EntityID, orgID, m.Action, m.Condition)

	case policy.EntityModules:
		name, ok, err := e.resolveModuleName(ctx, m)
		if err != nil {
			return err
		}
		if !ok {
			// Stale policy-to-module reference: drop this grant only.
			return nil
		}
		acc.grantModule(name, m.Action, m.Condition)

	case policy.EntityReports:
		acc.grantReport(m.EntityID, m.Action, m.Condition)

	default:
		acc.grantAdditional(m.EntityType, m.EntityID, m.Action, m.Condition)
	}
	return nil
}

// resolveModuleName resolves a module entity id to its module name.
// A dangling or malformed reference is a soft failure: it is logged and
// reported as not-ok so the caller drops the single grant without
// aborting the aggregation run.
func (e *Engine) resolveModuleName(ctx context.Context, m *policy.EntityMapping) (string, bool, error) {
	modID, err := id.ParseModuleID(m.EntityID)
	if err != nil {
		e.logger.Warn("dropping grant with malformed module reference",
			slog.String("entity_id", m.EntityID),
			slog.String("policy", m.PolicyID.String()),
		)
		return "", false, nil
	}

	mod, err := e.store.GetModule(ctx, modID)
	if err != nil {
		if errors.Is(err, module.ErrNotFound) {
			e.logger.Warn("dropping grant for missing module",
				slog.String("module", m.EntityID),
				slog.String("policy", m.PolicyID.String()),
			)
			return "", false, nil
		}
		return "", false, err
	}
	return mod.Name, true, nil
}

func wrapAggregation(userID id.UserID, err error) error {
	return fmt.Errorf("%w: user %s: %w", ErrAggregation, userID, err)
}

// ──────────────────────────────────────────────────
// Accumulator
// ──────────────────────────────────────────────────

// accumulator gathers grants while walking a user's assignments. All
// containers are maps and sets so that merge order never matters; only
// the per-key module/report lists preserve insertion order, with
// duplicates suppressed by structural equality.
type accumulator struct {
	alertType  map[string]map[string]map[string]userperm.ActionFormat
	modules    map[string][]userperm.ActionCondition
	reports    map[string][]userperm.ActionCondition
	additional map[string]map[string][]userperm.ActionCondition

	alertTypeOrgIDs map[string]struct{}
	orgIDs          map[string]struct{}
	orgKeys         map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		alertType:       make(map[string]map[string]map[string]userperm.ActionFormat),
		modules:         make(map[string][]userperm.ActionCondition),
		reports:         make(map[string][]userperm.ActionCondition),
		additional:      make(map[string]map[string][]userperm.ActionCondition),
		alertTypeOrgIDs: make(map[string]struct{}),
		orgIDs:          make(map[string]struct{}),
		orgKeys:         make(map[string]struct{}),
	}
}

// grantAlertType upserts an org-scoped action grant. Re-inserting the
// same action overwrites its condition: last value wins.
func (acc *accumulator) grantAlertType(alertTypeID, orgID, action, condition string) {
	orgs, ok := acc.alertType[alertTypeID]
	if !ok {
		orgs = make(map[string]map[string]userperm.ActionFormat)
		acc.alertType[alertTypeID] = orgs
	}
	actions, ok := orgs[orgID]
	if !ok {
		actions = make(map[string]userperm.ActionFormat)
		orgs[orgID] = actions
	}
	actions[action] = userperm.ActionFormat{Condition: condition}
	acc.alertTypeOrgIDs[alertTypeID+":"+orgID] = struct{}{}
}

func (acc *accumulator) grantModule(moduleName, action, condition string) {
	acc.modules[moduleName] = userperm.AppendUnique(acc.modules[moduleName],
		userperm.ActionCondition{Action: action, Condition: condition})
}

func (acc *accumulator) grantReport(reportName, action, condition string) {
	acc.reports[reportName] = userperm.AppendUnique(acc.reports[reportName],
		userperm.ActionCondition{Action: action, Condition: condition})
}

func (acc *accumulator) grantAdditional(entityType, entityID, action, condition string) {
	grants, ok := acc.additional[entityType]
	if !ok {
		grants = make(map[string][]userperm.ActionCondition)
		acc.additional[entityType] = grants
	}
	grants[entityID] = userperm.AppendUnique(grants[entityID],
		userperm.ActionCondition{Action: action, Condition: condition})
}

// document assembles the final permission document. Empty buckets stay
// nil and metadata sets are sorted, so two runs over the same data are
// structurally identical.
func (acc *accumulator) document(user *identity.User) *userperm.Document {
	var wrapper userperm.Wrapper

	if len(acc.alertType) > 0 {
		wrapper.AlertType = make(map[string]userperm.AlertTypeOrgPermissions, len(acc.alertType))
		for atID, orgs := range acc.alertType {
			perOrg := make(map[string]userperm.OrgActions, len(orgs))
			for orgID, actions := range orgs {
				perOrg[orgID] = userperm.OrgActions{Actions: actions}
			}
			wrapper.AlertType[atID] = userperm.AlertTypeOrgPermissions{OrgID: perOrg}
		}
	}
	if len(acc.modules) > 0 {
		wrapper.Modules = acc.modules
	}
	if len(acc.reports) > 0 {
		wrapper.Reports = acc.reports
	}
	if len(acc.additional) > 0 {
		wrapper.Additional = make(map[string]userperm.EntityGrants, len(acc.additional))
		for entityType, grants := range acc.additional {
			wrapper.Additional[entityType] = grants
		}
	}

	return &userperm.Document{
		UserID: user.ID.String(),
		User: userperm.UserInfo{
			ID:       user.ID.String(),
			FullName: user.FullName(),
		},
		Permission: wrapper,
		Metadata: userperm.Metadata{
			UniqueAlertTypesOrgID: sortedKeys(acc.alertTypeOrgIDs),
			UniqueOrgID:           sortedKeys(acc.orgIDs),
			DistinctOrgKeys:       sortedKeys(acc.orgKeys),
		},
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
