package extension

import "time"

// Config holds the Aegis extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.aegis" or "aegis" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// CacheTTL is the time-to-live for cached permission documents and
	// projections. Zero falls back to the engine default.
	CacheTTL time.Duration `json:"cache_ttl" mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// CacheMaxEntries bounds each of the per-user caches. Zero falls
	// back to the engine default.
	CacheMaxEntries int `json:"cache_max_entries" mapstructure:"cache_max_entries" yaml:"cache_max_entries"`

	// DisableRefreshLog turns off refresh audit records.
	DisableRefreshLog bool `json:"disable_refresh_log" mapstructure:"disable_refresh_log" yaml:"disable_refresh_log"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}
