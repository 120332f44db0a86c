// internal/workers/profile/load-cv-summary/models.go
package loadcvsummary

import "rekonet-workers/internal/models"

type Input struct {
	AssessmentID string `json:"assessmentId"`
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	models.CVSummary
}
