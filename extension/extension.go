// Package extension provides a Forge extension entry point for Aegis.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/fincase/aegis"
	"github.com/fincase/aegis/api"
	"github.com/fincase/aegis/docstore"
	"github.com/fincase/aegis/plugin"
	"github.com/fincase/aegis/store"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "aegis"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "User permission aggregation engine for financial-alert case management"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Aegis as a Forge extension.
type Extension struct {
	config     Config
	eng        *aegis.Engine
	apiHandler *api.API
	logger     *slog.Logger
	aegisOpts  []aegis.Option
	plugins    []plugin.Plugin
}

// New creates an Aegis Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Engine returns the underlying Aegis engine.
func (e *Extension) Engine() *aegis.Engine { return e.eng }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Register implements [forge.Extension]. It initializes the engine,
// registers it in the DI container, and optionally registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	// Register the engine in the DI container.
	if err := vessel.Provide(fapp.Container(), func() (*aegis.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("aegis: register engine in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Build engine options.
	opts := make([]aegis.Option, 0, len(e.aegisOpts)+len(e.plugins)+3)
	opts = append(opts, aegis.WithLogger(logger))
	opts = append(opts, aegis.WithConfig(e.engineConfig()))

	// Try to resolve stores from the DI container, fall back to
	// option-provided stores.
	if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
		opts = append(opts, aegis.WithStore(s))
	}
	if d, err := forge.Inject[docstore.Store](fapp.Container()); err == nil {
		opts = append(opts, aegis.WithDocumentStore(d))
	}

	// Append user-provided options (may override stores and config).
	opts = append(opts, e.aegisOpts...)

	// Register extension hooks.
	for _, x := range e.plugins {
		opts = append(opts, aegis.WithPlugin(x))
	}

	eng, err := aegis.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("aegis: create engine: %w", err)
	}
	e.eng = eng

	// Create API handler.
	e.apiHandler = api.New(eng, fapp.Router())

	// Register HTTP routes unless disabled.
	if !e.config.DisableRoutes {
		if err := e.apiHandler.RegisterRoutes(fapp.Router()); err != nil {
			return fmt.Errorf("aegis: register routes: %w", err)
		}
	}

	return nil
}

// engineConfig maps extension config onto the engine config, keeping
// engine defaults where the extension config is unset.
func (e *Extension) engineConfig() aegis.Config {
	cfg := aegis.DefaultConfig()
	if e.config.CacheTTL != 0 {
		cfg.CacheTTL = e.config.CacheTTL
	}
	if e.config.CacheMaxEntries != 0 {
		cfg.CacheMaxEntries = e.config.CacheMaxEntries
	}
	cfg.DisableRefreshLog = e.config.DisableRefreshLog
	return cfg
}

// Start begins the Aegis engine and runs migrations if enabled.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("aegis: extension not initialized")
	}

	// Run migrations unless disabled. Both stores migrate: relational
	// schema and document-store indexes.
	if !e.config.DisableMigrate {
		if s := e.eng.Store(); s != nil {
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("aegis: store migration failed: %w", err)
			}
		}
		if d := e.eng.Documents(); d != nil {
			if err := d.Migrate(ctx); err != nil {
				return fmt.Errorf("aegis: document store migration failed: %w", err)
			}
		}
	}

	return e.eng.Start(ctx)
}

// Stop gracefully shuts down the Aegis engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.eng == nil {
		return nil
	}
	return e.eng.Stop(ctx)
}

// Health implements [forge.Extension]. Both stores must respond.
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("aegis: extension not initialized")
	}
	s := e.eng.Store()
	if s == nil {
		return errors.New("aegis: no store configured")
	}
	if err := s.Ping(ctx); err != nil {
		return err
	}
	d := e.eng.Documents()
	if d == nil {
		return errors.New("aegis: no document store configured")
	}
	return d.Ping(ctx)
}

// Handler returns the HTTP handler for all API routes.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers all Aegis API routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) error {
	if e.apiHandler != nil {
		return e.apiHandler.RegisterRoutes(router)
	}
	return nil
}
