// internal/workers/result/compute-readiness-result/models.go
package computereadinessresult

import "rekonet-workers/internal/readiness"

type Input struct {
	AssessmentID string                `json:"assessmentId"`
	Language     string                `json:"language,omitempty"`
	GoalTitle    string                `json:"goalTitle,omitempty"`
	Location     string                `json:"location,omitempty"`
	PathSignals  readiness.PathSignals `json:"pathSignals"`
}

// Output carries the full payload plus the fields BPMN gateways branch on.
type Output struct {
	AssessmentID string                  `json:"assessmentId"`
	Result       readiness.ResultPayload `json:"result"`
	TierCode     string                  `json:"tierCode"`
	Path         readiness.Path          `json:"path"`
	Progress     int                     `json:"progressValue"`
	JobReady     bool                    `json:"jobReady"`
}
