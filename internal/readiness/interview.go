package readiness

import (
	"regexp"
	"strings"
)

// starResult matches an answer that names the result of the story: an
// outcome word, a reason, or any figure.
var starResult = regexp.MustCompile(`(?i)result|outcome|impact|because|so that|\d`)

const (
	FeedbackComplete  = "interview.feedback.complete"
	FeedbackAddResult = "interview.feedback.add_result"
	FeedbackAddDetail = "interview.feedback.add_detail"
)

// AnswerScore is the rubric mark for one practice answer.
type AnswerScore struct {
	Score       float64 `json:"score"`
	Words       int     `json:"words"`
	HasResult   bool    `json:"hasResult"`
	FeedbackKey string  `json:"feedbackKey"`
	Feedback    string  `json:"feedback"`
}

// ScoreAnswer marks a STAR practice answer. Length alone decides the score;
// the result check only changes the feedback.
func (e *Engine) ScoreAnswer(text, lang string) AnswerScore {
	out := AnswerScore{
		Words:     len(strings.Fields(text)),
		HasResult: starResult.MatchString(text),
		Score:     e.settings.ShortAnswerScore,
	}
	long := out.Words >= e.settings.MinAnswerWords
	if long {
		out.Score = e.settings.MaxPerQuestion
	}

	switch {
	case long && out.HasResult:
		out.FeedbackKey = FeedbackComplete
	case !long:
		out.FeedbackKey = FeedbackAddDetail
	default:
		out.FeedbackKey = FeedbackAddResult
	}
	out.Feedback = e.text(lang, out.FeedbackKey, nil)
	return out
}

// InterviewPct turns a session total into a percentage of
// MaxInterviewScore, capped at 100 and rounded to one decimal place.
func (e *Engine) InterviewPct(total float64) float64 {
	if total <= 0 {
		return 0
	}
	if total > e.settings.MaxInterviewScore {
		total = e.settings.MaxInterviewScore
	}
	return roundTo(total/e.settings.MaxInterviewScore*100, 1)
}
