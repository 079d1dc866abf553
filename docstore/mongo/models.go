package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/userperm"
)

// ──────────────────────────────────────────────────
// Permission document model
// ──────────────────────────────────────────────────

// The stored document mirrors the wire shape exactly: camelCase keys,
// _id keyed by user id. Consumers read these documents directly, so the
// bson field names are part of the contract.

type documentModel struct {
	grove.BaseModel `grove:"table:aegis_user_permissions"`
	UserID          string         `grove:"id,pk"      bson:"_id"`
	User            userInfoModel  `grove:"user"       bson:"user"`
	Permission      wrapperModel   `grove:"permission" bson:"permission"`
	Metadata        docMetaModel   `grove:"metadata"   bson:"metadata"`
}

type userInfoModel struct {
	ID       string `bson:"id"`
	FullName string `bson:"fullName"`
}

type wrapperModel struct {
	AlertType  map[string]alertTypeOrgModel             `bson:"alertType,omitempty"`
	Modules    map[string][]actionConditionModel        `bson:"modules,omitempty"`
	Reports    map[string][]actionConditionModel        `bson:"reports,omitempty"`
	Additional map[string]map[string][]actionConditionModel `bson:"additionalPermissions,omitempty"`
}

type alertTypeOrgModel struct {
	OrgID map[string]orgActionsModel `bson:"orgId"`
}

type orgActionsModel struct {
	Actions map[string]actionFormatModel `bson:"actions"`
}

type actionFormatModel struct {
	Condition string `bson:"condition"`
}

type actionConditionModel struct {
	Action    string `bson:"action"`
	Condition string `bson:"condition"`
}

type docMetaModel struct {
	UniqueAlertTypesOrgID []string `bson:"uniqueAlertTypesOrgId"`
	UniqueOrgID           []string `bson:"uniqueOrgId"`
	DistinctOrgKeys       []string `bson:"distinctOrgKeys"`
}

func documentToModel(doc *userperm.Document) *documentModel {
	return &documentModel{
		UserID: doc.UserID,
		User: userInfoModel{
			ID:       doc.User.ID,
			FullName: doc.User.FullName,
		},
		Permission: wrapperToModel(&doc.Permission),
		Metadata: docMetaModel{
			UniqueAlertTypesOrgID: doc.Metadata.UniqueAlertTypesOrgID,
			UniqueOrgID:           doc.Metadata.UniqueOrgID,
			DistinctOrgKeys:       doc.Metadata.DistinctOrgKeys,
		},
	}
}

func documentFromModel(m *documentModel) *userperm.Document {
	return &userperm.Document{
		UserID: m.UserID,
		User: userperm.UserInfo{
			ID:       m.User.ID,
			FullName: m.User.FullName,
		},
		Permission: wrapperFromModel(&m.Permission),
		Metadata: userperm.Metadata{
			UniqueAlertTypesOrgID: m.Metadata.UniqueAlertTypesOrgID,
			UniqueOrgID:           m.Metadata.UniqueOrgID,
			DistinctOrgKeys:       m.Metadata.DistinctOrgKeys,
		},
	}
}

func wrapperToModel(w *userperm.Wrapper) wrapperModel {
	m := wrapperModel{}
	if w.AlertType != nil {
		m.AlertType = make(map[string]alertTypeOrgModel, len(w.AlertType))
		for atID, orgPerms := range w.AlertType {
			orgs := make(map[string]orgActionsModel, len(orgPerms.OrgID))
			for orgID, oa := range orgPerms.OrgID {
				actions := make(map[string]actionFormatModel, len(oa.Actions))
				for action, f := range oa.Actions {
					actions[action] = actionFormatModel{Condition: f.Condition}
				}
				orgs[orgID] = orgActionsModel{Actions: actions}
			}
			m.AlertType[atID] = alertTypeOrgModel{OrgID: orgs}
		}
	}
	m.Modules = grantsToModel(w.Modules)
	m.Reports = grantsToModel(w.Reports)
	if w.Additional != nil {
		m.Additional = make(map[string]map[string][]actionConditionModel, len(w.Additional))
		for entityType, grants := range w.Additional {
			m.Additional[entityType] = grantsToModel(grants)
		}
	}
	return m
}

func wrapperFromModel(m *wrapperModel) userperm.Wrapper {
	w := userperm.Wrapper{}
	if m.AlertType != nil {
		w.AlertType = make(map[string]userperm.AlertTypeOrgPermissions, len(m.AlertType))
		for atID, orgPerms := range m.AlertType {
			orgs := make(map[string]userperm.OrgActions, len(orgPerms.OrgID))
			for orgID, oa := range orgPerms.OrgID {
				actions := make(map[string]userperm.ActionFormat, len(oa.Actions))
				for action, f := range oa.Actions {
					actions[action] = userperm.ActionFormat{Condition: f.Condition}
				}
				orgs[orgID] = userperm.OrgActions{Actions: actions}
			}
			w.AlertType[atID] = userperm.AlertTypeOrgPermissions{OrgID: orgs}
		}
	}
	w.Modules = grantsFromModel(m.Modules)
	w.Reports = grantsFromModel(m.Reports)
	if m.Additional != nil {
		w.Additional = make(map[string]userperm.EntityGrants, len(m.Additional))
		for entityType, grants := range m.Additional {
			w.Additional[entityType] = grantsFromModel(grants)
		}
	}
	return w
}

func grantsToModel(grants map[string][]userperm.ActionCondition) map[string][]actionConditionModel {
	if grants == nil {
		return nil
	}
	m := make(map[string][]actionConditionModel, len(grants))
	for key, acs := range grants {
		list := make([]actionConditionModel, len(acs))
		for i, ac := range acs {
			list[i] = actionConditionModel{Action: ac.Action, Condition: ac.Condition}
		}
		m[key] = list
	}
	return m
}

func grantsFromModel(m map[string][]actionConditionModel) map[string][]userperm.ActionCondition {
	if m == nil {
		return nil
	}
	grants := make(map[string][]userperm.ActionCondition, len(m))
	for key, list := range m {
		acs := make([]userperm.ActionCondition, len(list))
		for i, am := range list {
			acs[i] = userperm.ActionCondition{Action: am.Action, Condition: am.Condition}
		}
		grants[key] = acs
	}
	return grants
}

// ──────────────────────────────────────────────────
// Alert type model
// ──────────────────────────────────────────────────

type alertTypeModel struct {
	grove.BaseModel `grove:"table:aegis_alert_types"`
	ID              string    `grove:"id,pk"      bson:"_id"`
	Key             string    `grove:"key"        bson:"key"`
	Name            string    `grove:"name"       bson:"name"`
	Category        string    `grove:"category"   bson:"category"`
	IsEnabled       bool      `grove:"is_enabled" bson:"is_enabled"`
	CreatedAt       time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at" bson:"updated_at"`
}

func alertTypeToModel(at *alerttype.AlertType) *alertTypeModel {
	return &alertTypeModel{
		ID:        at.ID.String(),
		Key:       at.Key,
		Name:      at.Name,
		Category:  at.Category,
		IsEnabled: at.IsEnabled,
		CreatedAt: at.CreatedAt,
		UpdatedAt: at.UpdatedAt,
	}
}

func alertTypeFromModel(m *alertTypeModel) *alerttype.AlertType {
	atid, _ := id.ParseAlertTypeID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &alerttype.AlertType{
		ID:        atid,
		Key:       m.Key,
		Name:      m.Name,
		Category:  m.Category,
		IsEnabled: m.IsEnabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
