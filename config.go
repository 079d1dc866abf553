package aegis

import "time"

// Config holds configuration for the Aegis engine.
type Config struct {
	// CacheTTL is the time-to-live for cached permission documents and
	// projections. Zero or negative disables caching. Defaults to 5m.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// CacheMaxEntries bounds each of the three per-user caches.
	// Defaults to 10000.
	CacheMaxEntries int `json:"cache_max_entries,omitempty"`

	// DisableRefreshLog turns off refresh audit records.
	DisableRefreshLog bool `json:"disable_refresh_log,omitempty"`

	// IncludeInactivePolicies makes the aggregator process policies that
	// are flagged inactive. Defaults to false: inactive policies are
	// skipped with a debug log.
	IncludeInactivePolicies bool `json:"include_inactive_policies,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        5 * time.Minute,
		CacheMaxEntries: 10000,
	}
}

func (c Config) cacheEnabled() bool { return c.CacheTTL > 0 }
