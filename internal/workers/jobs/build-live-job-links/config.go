// internal/workers/jobs/build-live-job-links/config.go
package buildlivejoblinks

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
