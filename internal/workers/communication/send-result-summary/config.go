// internal/workers/communication/send-result-summary/config.go
package sendresultsummary

import "time"

type Config struct {
	Timeout time.Duration
	// DefaultChannel is used when the job names none.
	DefaultChannel string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		DefaultChannel: ChannelEmail,
	}
}
