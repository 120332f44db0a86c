// internal/workers/assessment/create-assessment/models.go
package createassessment

type Input struct {
	UserID   string `json:"userId,omitempty"`
	Language string `json:"language,omitempty"`
}

type QuestionView struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

type ScaleOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Output struct {
	AssessmentID string         `json:"assessmentId"`
	Language     string         `json:"language"`
	Direction    string         `json:"direction"`
	Intro        string         `json:"intro"`
	Questions    []QuestionView `json:"questions"`
	Scale        []ScaleOption  `json:"scale"`
}
