// internal/workers/jobs/build-live-job-links/models.go
package buildlivejoblinks

import (
	"rekonet-workers/internal/jobsearch"
	"rekonet-workers/internal/readiness"
)

type Input struct {
	Goal             string                  `json:"goal"`
	Place            string                  `json:"place"`
	ExperienceMonths int                     `json:"experienceMonths"`
	Keywords         []string                `json:"keywords"`
	Availability     *readiness.Availability `json:"availability,omitempty"`
}

type Output struct {
	Links  jobsearch.Links `json:"links"`
	Stage  readiness.Stage `json:"experienceStage"`
	Radius int             `json:"radiusMiles"`
}
