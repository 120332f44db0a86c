// internal/workers/assessment/record-answer/models.go
package recordanswer

type Input struct {
	AssessmentID string `json:"assessmentId"`
	QuestionID   string `json:"questionId"`
	Score        int    `json:"score"`
}

type Output struct {
	AssessmentID   string `json:"assessmentId"`
	QuestionID     string `json:"questionId"`
	Category       string `json:"category"`
	Score          int    `json:"score"`
	AnsweredCount  int    `json:"answeredCount"`
	TotalQuestions int    `json:"totalQuestions"`
	Complete       bool   `json:"assessmentComplete"`
}
