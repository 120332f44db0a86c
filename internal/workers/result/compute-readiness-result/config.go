// internal/workers/result/compute-readiness-result/config.go
package computereadinessresult

import "time"

type Config struct {
	Timeout time.Duration
	// TotalActivities is the denominator of the activities percentage.
	TotalActivities int
	// ValidateOutput checks the payload against the readiness-result
	// schema before completing the job.
	ValidateOutput bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         15 * time.Second,
		TotalActivities: 6,
		ValidateOutput:  true,
	}
}
