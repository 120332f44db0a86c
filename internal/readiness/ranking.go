package readiness

import (
	"math"
	"strings"
)

// RankBreakdown itemizes a suggestion's ranking score.
type RankBreakdown struct {
	Goal         float64 `json:"goal"`
	Keywords     float64 `json:"keywords"`
	Availability float64 `json:"availability"`
	Proximity    float64 `json:"proximity"`
	Multiplier   float64 `json:"multiplier"`
	Total        float64 `json:"total"`
}

func (e *Engine) rank(s RoleSuggestion, in MatchInput) float64 {
	return e.Breakdown(s, in).Total
}

// Breakdown computes the additive ranking terms for one suggestion and
// applies the experience multiplier to their sum.
func (e *Engine) Breakdown(s RoleSuggestion, in MatchInput) RankBreakdown {
	cfg := e.settings
	var b RankBreakdown

	if goal := Normalize(in.GoalTitle); goal != "" && strings.Contains(Normalize(s.Title), goal) {
		b.Goal = cfg.GoalBoost
	}

	if len(in.CVKeywords) > 0 {
		var gapText []string
		for _, g := range s.Gaps {
			gapText = append(gapText, g.Key...)
			gapText = append(gapText, g.Why)
		}
		kw := cfg.TitleHitWeight*float64(KeywordHits(s.Title, in.CVKeywords)) +
			cfg.WhyHitWeight*float64(KeywordHits(s.Why, in.CVKeywords)) +
			cfg.GapHitWeight*float64(KeywordHits(strings.Join(gapText, " "), in.CVKeywords))
		b.Keywords = math.Min(kw, cfg.KeywordCap)
	}

	b.Availability = math.Min(AvailabilityBoost(s.Title, in.Availability), cfg.AvailabilityCap)

	if in.Availability != nil {
		dir := ProximityDirection(s.Title, in.Location, in.Availability.MaxTravelMins, cfg.ProximityMaxTravel)
		b.Proximity = float64(dir) * cfg.ProximityNudge
	}

	stage := in.Stage
	if stage == "" {
		stage = StageNew
	}
	b.Multiplier = e.Multiplier(stage)
	b.Total = roundTo((b.Goal+b.Keywords+b.Availability+b.Proximity)*b.Multiplier, 4)
	return b
}
