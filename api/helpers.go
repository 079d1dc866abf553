package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/fincase/aegis"
	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/module"
	"github.com/fincase/aegis/orgunit"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/role"
	"github.com/fincase/aegis/userperm"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, aegis.ErrUserNotFound) ||
		errors.Is(err, aegis.ErrOrgUnitNotFound) ||
		errors.Is(err, aegis.ErrModuleNotFound) ||
		errors.Is(err, aegis.ErrDocumentNotFound) ||
		errors.Is(err, identity.ErrNotFound) ||
		errors.Is(err, orgunit.ErrNotFound) ||
		errors.Is(err, role.ErrNotFound) ||
		errors.Is(err, policy.ErrNotFound) ||
		errors.Is(err, policy.ErrMappingNotFound) ||
		errors.Is(err, assignment.ErrNotFound) ||
		errors.Is(err, module.ErrNotFound) ||
		errors.Is(err, alerttype.ErrNotFound) ||
		errors.Is(err, userperm.ErrNotFound)
}

// boolFilter interprets a "true"/"false" query value. Anything else
// means no filter.
func boolFilter(s string) *bool {
	switch s {
	case "true":
		t := true
		return &t
	case "false":
		f := false
		return &f
	}
	return nil
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
