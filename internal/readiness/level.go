package readiness

type Level struct {
	Label string `json:"tierLabel"`
	Code  string `json:"tierCode"`
}

// Classify picks the first tier whose lower bound the average reaches,
// scanning from the top. Anything below every bound, NaN included, lands
// in the lowest tier.
func (e *Engine) Classify(overall float64) Level {
	tiers := e.settings.Tiers
	for _, t := range tiers {
		if overall >= t.MinAverage {
			return Level{Label: t.Label, Code: t.Code}
		}
	}
	last := tiers[len(tiers)-1]
	return Level{Label: last.Label, Code: last.Code}
}

var levelRanks = map[string]int{
	"L1": 1,
	"L2": 2,
	"L3": 3,
	"L4": 4,
}

// LevelRank orders level codes L1 < L2 < L3 < L4. Unknown codes rank 0.
func LevelRank(code string) int {
	return levelRanks[code]
}
