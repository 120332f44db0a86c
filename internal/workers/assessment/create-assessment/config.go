// internal/workers/assessment/create-assessment/config.go
package createassessment

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultLanguage string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultLanguage: "en",
	}
}
