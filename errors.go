package aegis

import "errors"

var (
	// ErrUserNotFound is returned when identity resolution fails for the
	// user whose permissions are being aggregated. It aborts the whole
	// aggregation run.
	ErrUserNotFound = errors.New("aegis: user not found")

	// ErrOrgUnitNotFound is returned when an assignment references an org
	// unit that does not exist. It is a data-integrity fault and aborts
	// the aggregation run.
	ErrOrgUnitNotFound = errors.New("aegis: org unit not found")

	// ErrModuleNotFound marks a dangling module reference in a policy
	// mapping. It is never fatal: the grant is logged and dropped.
	ErrModuleNotFound = errors.New("aegis: module not found")

	// ErrDocumentNotFound is returned when no permission document exists
	// for a user.
	ErrDocumentNotFound = errors.New("aegis: permission document not found")

	// ErrAggregation wraps any unexpected fault during mapping processing.
	// Aggregation fails fast: a partial permission document is never
	// persisted, since under- or over-granting access is a security
	// correctness issue.
	ErrAggregation = errors.New("aegis: permission aggregation failed")

	// ErrPersistence is returned when a read or write against the
	// document store fails. Callers may retry Refresh freely: aggregation
	// is pure and the upsert is a full replace.
	ErrPersistence = errors.New("aegis: document store operation failed")
)
