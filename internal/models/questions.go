// internal/models/questions.go
package models

import "rekonet-workers/internal/readiness"

type Question struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// QuestionBank is the default questionnaire, two statements per category.
// Statement text lives in the locale catalog under question.<id>.
var QuestionBank = []Question{
	{ID: "cv-1", Category: readiness.CategoryCV},
	{ID: "cv-2", Category: readiness.CategoryCV},
	{ID: "int-1", Category: readiness.CategoryInterview},
	{ID: "int-2", Category: readiness.CategoryInterview},
	{ID: "sk-1", Category: readiness.CategorySkills},
	{ID: "sk-2", Category: readiness.CategorySkills},
	{ID: "js-1", Category: readiness.CategoryJobSearch},
	{ID: "js-2", Category: readiness.CategoryJobSearch},
}

// ScaleMin and ScaleMax bound the Likert scale (Not yet .. Always).
const (
	ScaleMin = 1
	ScaleMax = 5
)

func FindQuestion(id string) (Question, bool) {
	for _, q := range QuestionBank {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// EngineAnswers converts stored answers for scoring.
func EngineAnswers(answers []Answer) []readiness.Answer {
	out := make([]readiness.Answer, 0, len(answers))
	for _, a := range answers {
		out = append(out, readiness.Answer{
			QuestionID: a.QuestionID,
			Category:   a.Category,
			Score:      float64(a.Score),
		})
	}
	return out
}
