// internal/workers/assessment/set-language/models.go
package setlanguage

type Input struct {
	AssessmentID string `json:"assessmentId"`
	Language     string `json:"language"`
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	Language     string `json:"language"`
	Direction    string `json:"direction"`
}
