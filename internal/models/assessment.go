// internal/models/assessment.go
package models

import "time"

type Assessment struct {
	ID        string    `json:"id" db:"id" validate:"required"`
	UserID    string    `json:"userId,omitempty" db:"user_id"`
	Language  string    `json:"language" db:"language" validate:"required,min=2,max=8"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Answer is one Likert response. Score is 1 (Not yet) to 5 (Always).
type Answer struct {
	AssessmentID string    `json:"assessmentId" db:"assessment_id" validate:"required"`
	QuestionID   string    `json:"questionId" db:"question_id" validate:"required"`
	Category     string    `json:"category" db:"category" validate:"required,oneof=cv interview skills jobsearch"`
	Score        int       `json:"score" db:"score" validate:"min=1,max=5"`
	AnsweredAt   time.Time `json:"answeredAt" db:"answered_at"`
}

// InterviewAttempt is one scored practice answer. The upper bound on Score
// comes from the engine's per-question rubric.
type InterviewAttempt struct {
	ID           string    `json:"id" db:"id"`
	AssessmentID string    `json:"assessmentId" db:"assessment_id" validate:"required"`
	QuestionID   string    `json:"questionId" db:"question_id" validate:"required"`
	Answer       string    `json:"answer,omitempty" db:"answer"`
	Score        float64   `json:"score" db:"score" validate:"gte=0"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
