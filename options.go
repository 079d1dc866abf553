package aegis

import (
	"log/slog"

	"github.com/fincase/aegis/docstore"
	"github.com/fincase/aegis/plugin"
	"github.com/fincase/aegis/store"
	"github.com/fincase/aegis/userperm"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithStore sets the relational store (users, org units, roles, policies,
// assignments, modules, refresh log).
func WithStore(s store.Store) Option { return func(e *Engine) { e.store = s } }

// WithDocumentStore sets the document store (permission documents,
// alert types).
func WithDocumentStore(d docstore.Store) Option { return func(e *Engine) { e.docs = d } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithDocumentCache injects the permission document cache handle.
func WithDocumentCache(c Cache[*userperm.Document]) Option {
	return func(e *Engine) { e.docCache = c }
}

// WithOrgIDCache injects the org-id projection cache handle.
func WithOrgIDCache(c Cache[[]string]) Option {
	return func(e *Engine) { e.orgIDs = c }
}

// WithOrgKeyCache injects the org-key projection cache handle.
func WithOrgKeyCache(c Cache[[]string]) Option {
	return func(e *Engine) { e.orgKeys = c }
}

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
