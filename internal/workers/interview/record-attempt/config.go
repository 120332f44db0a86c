// internal/workers/interview/record-attempt/config.go
package recordattempt

import "time"

type Config struct {
	Timeout time.Duration
	// RecentLimit is used when the job does not ask for a limit.
	RecentLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		RecentLimit: 3,
	}
}
