// internal/workers/interview/record-attempt/models.go
package recordattempt

import "rekonet-workers/internal/models"

// Input carries either a pre-marked score or the answer text to mark.
type Input struct {
	AssessmentID string   `json:"assessmentId"`
	QuestionID   string   `json:"questionId"`
	Answer       string   `json:"answer,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Language     string   `json:"language,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

type Output struct {
	AttemptID    string  `json:"attemptId"`
	AssessmentID string  `json:"assessmentId"`
	QuestionID   string  `json:"questionId"`
	Score        float64 `json:"score"`
	// Words and Feedback are set only when the answer was marked here.
	Words        int                       `json:"words,omitempty"`
	Feedback     string                    `json:"feedback,omitempty"`
	QuestionPct  float64                   `json:"questionPct"`
	SessionScore float64                   `json:"sessionScore"`
	InterviewPct float64                   `json:"interviewPct"`
	Recent       []models.InterviewAttempt `json:"recentAttempts"`
	BestPct      float64                   `json:"bestPct"`
}
