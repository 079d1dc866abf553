// Package aegis implements the user permission aggregation core of a
// financial-alert case-management backend.
//
// Given a user, the engine walks their org-role assignments, resolves the
// policies bound to each role, expands each policy into per-entity-type
// action grants (alert types scoped per org unit; modules and reports
// flat), deduplicates and merges them, and persists the result as one
// denormalized permission document consumed at request-authorization
// time. Reads of the document and its org projections are cache-fronted;
// every write evicts all projections for the user together.
//
//	eng, err := aegis.NewEngine(
//	    aegis.WithStore(relStore),
//	    aegis.WithDocumentStore(docStore),
//	)
//	if err := eng.Refresh(ctx, userID); err != nil { ... }
//	doc, err := eng.GetDocument(ctx, userID)
package aegis
