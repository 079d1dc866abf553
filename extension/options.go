package extension

import (
	"log/slog"

	"github.com/fincase/aegis"
	"github.com/fincase/aegis/docstore"
	"github.com/fincase/aegis/plugin"
	"github.com/fincase/aegis/store"
)

// ExtOption configures the Aegis Forge extension.
type ExtOption func(*Extension)

// WithStore sets the relational persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.aegisOpts = append(e.aegisOpts, aegis.WithStore(s))
	}
}

// WithDocumentStore sets the document store backend.
func WithDocumentStore(d docstore.Store) ExtOption {
	return func(e *Extension) {
		e.aegisOpts = append(e.aegisOpts, aegis.WithDocumentStore(d))
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithEngineOptions adds engine-level options.
func WithEngineOptions(opts ...aegis.Option) ExtOption {
	return func(e *Extension) {
		e.aegisOpts = append(e.aegisOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableRoutes disables the registration of HTTP routes.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithDisableMigrate disables auto-migration on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
