package aegis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fincase/aegis/cache"
	"github.com/fincase/aegis/docstore"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/plugin"
	"github.com/fincase/aegis/refreshlog"
	"github.com/fincase/aegis/store"
	"github.com/fincase/aegis/userperm"
)

// Compile-time check that the memory cache satisfies the handle interface.
var _ Cache[int] = (*cache.Memory[int])(nil)

// Engine is the user permission aggregation engine. It folds a user's
// org-role assignments through their policies into one denormalized
// permission document, persists it in the document store, and serves
// cache-fronted reads of the document and its projections.
type Engine struct {
	store    store.Store
	docs     docstore.Store
	docCache Cache[*userperm.Document]
	orgIDs   Cache[[]string]
	orgKeys  Cache[[]string]
	plugins  *plugin.Registry
	logger   *slog.Logger
	config   Config
}

// NewEngine creates a new Aegis engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("aegis: relational store is required")
	}
	if e.docs == nil {
		return nil, errors.New("aegis: document store is required")
	}
	// Build default cache handles unless caching is disabled or handles
	// were injected.
	if e.config.cacheEnabled() {
		ttl := cache.WithTTL(e.config.CacheTTL)
		size := cache.WithMaxSize(e.config.CacheMaxEntries)
		if e.docCache == nil {
			e.docCache = cache.NewMemory[*userperm.Document](ttl, size)
		}
		if e.orgIDs == nil {
			e.orgIDs = cache.NewMemory[[]string](ttl, size)
		}
		if e.orgKeys == nil {
			e.orgKeys = cache.NewMemory[[]string](ttl, size)
		}
	}
	return e, nil
}

// Store returns the underlying relational store.
func (e *Engine) Store() store.Store { return e.store }

// Documents returns the underlying document store.
func (e *Engine) Documents() docstore.Store { return e.docs }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// Refresh recomputes the permission document for a user, persists it, and
// evicts all cached projections for that user. It is idempotent and safe
// to retry; the upsert is a full replace. Concurrent refreshes for the
// same user race on the upsert with last-writer-wins semantics — the
// engine assumes a single writer per user.
func (e *Engine) Refresh(ctx context.Context, userID id.UserID) error {
	start := time.Now()

	if e.plugins != nil {
		e.plugins.EmitBeforeRefresh(ctx, userID)
	}

	doc, err := e.Generate(ctx, userID)
	if err != nil {
		e.recordRefresh(ctx, userID.String(), nil, time.Since(start), err)
		return err
	}

	if err := e.docs.UpsertDocument(ctx, doc); err != nil {
		err = fmt.Errorf("%w: upsert for user %s: %w", ErrPersistence, userID, err)
		e.recordRefresh(ctx, userID.String(), nil, time.Since(start), err)
		return err
	}

	e.invalidateUser(ctx, userID.String())

	if e.plugins != nil {
		e.plugins.EmitAfterRefresh(ctx, doc)
		e.plugins.EmitDocumentPersisted(ctx, doc)
	}

	e.recordRefresh(ctx, userID.String(), doc, time.Since(start), nil)

	e.logger.Info("permission document refreshed",
		slog.String("user", userID.String()),
		slog.Int("grants", doc.Permission.GrantCount()),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

// DeleteDocument removes a user's permission document and evicts every
// cached projection for that user. Deleting an absent document is not an
// error.
func (e *Engine) DeleteDocument(ctx context.Context, userID id.UserID) error {
	if err := e.docs.DeleteDocument(ctx, userID.String()); err != nil {
		return fmt.Errorf("%w: delete for user %s: %w", ErrPersistence, userID, err)
	}
	e.invalidateUser(ctx, userID.String())
	return nil
}

// GetDocument returns the persisted permission document for a user,
// cache-aside. Returns ErrDocumentNotFound if no refresh has run yet.
func (e *Engine) GetDocument(ctx context.Context, userID id.UserID) (*userperm.Document, error) {
	key := userID.String()
	if e.docCache != nil {
		if doc, ok := e.docCache.Get(ctx, key); ok {
			return doc, nil
		}
	}

	doc, err := e.readDocument(ctx, key)
	if err != nil {
		return nil, err
	}
	if e.docCache != nil {
		e.docCache.Set(ctx, key, doc)
	}
	return doc, nil
}

// GetDistinctOrgIDs returns the ids of all org units the user holds any
// role in, cache-aside. The projection is extracted from the full
// document; there is no secondary stored structure.
func (e *Engine) GetDistinctOrgIDs(ctx context.Context, userID id.UserID) ([]string, error) {
	key := userID.String()
	if e.orgIDs != nil {
		if ids, ok := e.orgIDs.Get(ctx, key); ok {
			return ids, nil
		}
	}

	doc, err := e.readDocument(ctx, key)
	if err != nil {
		return nil, err
	}
	ids := doc.Metadata.UniqueOrgID
	if e.orgIDs != nil {
		e.orgIDs.Set(ctx, key, ids)
	}
	return ids, nil
}

// GetDistinctOrgKeys returns the human-readable keys of all org units the
// user holds any role in, cache-aside.
func (e *Engine) GetDistinctOrgKeys(ctx context.Context, userID id.UserID) ([]string, error) {
	key := userID.String()
	if e.orgKeys != nil {
		if keys, ok := e.orgKeys.Get(ctx, key); ok {
			return keys, nil
		}
	}

	doc, err := e.readDocument(ctx, key)
	if err != nil {
		return nil, err
	}
	keys := doc.Metadata.DistinctOrgKeys
	if e.orgKeys != nil {
		e.orgKeys.Set(ctx, key, keys)
	}
	return keys, nil
}

// CanAlertTypeAction reports whether the user's persisted document grants
// the action on the alert type within the org unit. A missing document
// means no grants, not an error.
func (e *Engine) CanAlertTypeAction(ctx context.Context, userID id.UserID, alertTypeID, orgID, action string) (bool, error) {
	doc, err := e.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, nil
		}
		return false, err
	}
	return doc.Permission.AllowsAlertTypeAction(alertTypeID, orgID, action), nil
}

// CanModuleAction reports whether the user's persisted document grants
// the action on the named module.
func (e *Engine) CanModuleAction(ctx context.Context, userID id.UserID, moduleName, action string) (bool, error) {
	doc, err := e.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, nil
		}
		return false, err
	}
	return doc.Permission.AllowsModuleAction(moduleName, action), nil
}

// CanReportAction reports whether the user's persisted document grants
// the action on the named report.
func (e *Engine) CanReportAction(ctx context.Context, userID id.UserID, reportName, action string) (bool, error) {
	doc, err := e.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, nil
		}
		return false, err
	}
	return doc.Permission.AllowsReportAction(reportName, action), nil
}

// readDocument reads through to the document store, mapping sentinels.
func (e *Engine) readDocument(ctx context.Context, userID string) (*userperm.Document, error) {
	doc, err := e.docs.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, userperm.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrDocumentNotFound, userID)
		}
		return nil, fmt.Errorf("%w: get for user %s: %w", ErrPersistence, userID, err)
	}
	return doc, nil
}

// invalidateUser evicts all three caches for a user. The handles are
// never invalidated independently: both projections derive from the same
// document snapshot, and a stale-one/fresh-other split would be
// incoherent.
func (e *Engine) invalidateUser(ctx context.Context, userID string) {
	if e.docCache != nil {
		e.docCache.Invalidate(ctx, userID)
	}
	if e.orgIDs != nil {
		e.orgIDs.Invalidate(ctx, userID)
	}
	if e.orgKeys != nil {
		e.orgKeys.Invalidate(ctx, userID)
	}
}

// recordRefresh writes a refresh audit entry. Failures are logged and
// never propagated: auditing must not block the refresh path.
func (e *Engine) recordRefresh(ctx context.Context, userID string, doc *userperm.Document, took time.Duration, refreshErr error) {
	if e.config.DisableRefreshLog {
		return
	}

	entry := &refreshlog.Entry{
		ID:         id.NewRefreshLogID(),
		UserID:     userID,
		Status:     refreshlog.StatusOK,
		DurationNs: took.Nanoseconds(),
	}
	if refreshErr != nil {
		entry.Status = refreshlog.StatusFailed
		entry.Error = refreshErr.Error()
	}
	if doc != nil {
		entry.OrgUnitCount = len(doc.Metadata.UniqueOrgID)
		entry.AlertTypeCount = len(doc.Permission.AlertType)
		entry.ModuleCount = len(doc.Permission.Modules)
		entry.ReportCount = len(doc.Permission.Reports)
		entry.GrantCount = doc.Permission.GrantCount()
	}

	if err := e.store.RecordRefresh(ctx, entry); err != nil {
		e.logger.Warn("failed to record refresh log entry",
			slog.String("user", userID),
			slog.String("error", err.Error()),
		)
	}
}
