// internal/workers/profile/load-cv-summary/config.go
package loadcvsummary

import "time"

type Config struct {
	Timeout time.Duration
	// MaxKeywords caps the keywords returned; 0 returns all of them.
	MaxKeywords int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		MaxKeywords: 12,
	}
}
