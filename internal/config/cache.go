package config

import "time"

// CacheConfig defines settings for the response cache on read endpoints.
// The shared booking sheet is polled by every open frontend, so even a short
// TTL takes most of that load off MySQL.  When Enabled is false or no Redis
// client is available, caching is disabled.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults cache GET responses for five seconds, short enough that a new
// booking shows up on the shared sheet almost immediately.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 5*time.Second),
		Prefix:       opt("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
