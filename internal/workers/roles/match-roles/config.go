// internal/workers/roles/match-roles/config.go
package matchroles

import "time"

type Config struct {
	Timeout time.Duration
	// IncludeBreakdown adds the per-term ranking scores to the output.
	IncludeBreakdown bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		IncludeBreakdown: true,
	}
}
