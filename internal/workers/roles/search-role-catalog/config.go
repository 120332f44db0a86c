// internal/workers/roles/search-role-catalog/config.go
package searchrolecatalog

import "time"

type Config struct {
	Timeout time.Duration
	MaxHits int
	// Index is only used in error metadata; the RoleIndex owns the name.
	Index string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 3 * time.Second,
		MaxHits: 10,
		Index:   "role_profiles",
	}
}
