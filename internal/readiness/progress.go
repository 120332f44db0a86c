package readiness

import (
	"math"
	"strconv"
)

type ProgressSignals struct {
	ActivitiesPct float64 `json:"activitiesPct"`
	CVPct         float64 `json:"cvPct"`
	InterviewPct  float64 `json:"interviewPct"`
}

type Progress struct {
	Value       int    `json:"value"`
	Band        int    `json:"band"`
	WithinReach bool   `json:"withinReach"`
	NextPrompt  string `json:"nextPrompt"`
}

// ScoreProgress blends the level with three percentage signals into a
// 0..100 value. Every input is clamped first, so the value never leaves
// that range. The last band is the achieved state.
func (e *Engine) ScoreProgress(levelCode string, sig ProgressSignals, lang string) Progress {
	s := e.settings

	levelScore, ok := s.LevelScores[levelCode]
	if !ok {
		levelScore = s.DefaultLevelScore
	}

	raw := s.Weights.Level*levelScore +
		s.Weights.Activities*clampPercent(sig.ActivitiesPct) +
		s.Weights.CV*clampPercent(sig.CVPct) +
		s.Weights.Interview*clampPercent(sig.InterviewPct)
	value := int(math.Round(clampPercent(raw)))

	band := e.band(value)
	return Progress{
		Value:       value,
		Band:        band,
		WithinReach: value >= s.WithinReachFrom && value < 100,
		NextPrompt:  e.text(lang, "progress.band."+strconv.Itoa(band), nil),
	}
}

func (e *Engine) band(value int) int {
	for i, t := range e.settings.BandThresholds {
		if float64(value) < t {
			return i
		}
	}
	return len(e.settings.BandThresholds)
}
