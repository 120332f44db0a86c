// internal/workers/profile/plan-goal/models.go
package plangoal

import "rekonet-workers/internal/readiness"

type Input struct {
	AssessmentID string `json:"assessmentId"`
	Goal         string `json:"goal"`
	Language     string `json:"language"`
	// Keywords overrides the stored CV keywords when set.
	Keywords []string `json:"keywords,omitempty"`
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	HasCV        bool   `json:"hasCV"`
	readiness.GoalPlan
}
