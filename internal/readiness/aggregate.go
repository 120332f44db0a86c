package readiness

import (
	"math"
	"sort"
)

type Answer struct {
	QuestionID string  `json:"questionId"`
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
}

type CategoryAverage struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
	Answered int     `json:"answered"`
}

type Aggregation struct {
	ByCategory []CategoryAverage
	Overall    float64
	// Unknown lists category keys seen in the answers but not configured.
	// Those answers are ignored.
	Unknown []string
}

// Aggregate averages answer scores per configured category. The overall
// average weighs every category equally, including unanswered ones.
func (e *Engine) Aggregate(answers []Answer) Aggregation {
	sums := make(map[string]float64, len(e.settings.Categories))
	counts := make(map[string]int, len(e.settings.Categories))
	for _, c := range e.settings.Categories {
		sums[c] = 0
	}

	unknown := map[string]struct{}{}
	for _, a := range answers {
		if _, ok := sums[a.Category]; !ok {
			unknown[a.Category] = struct{}{}
			continue
		}
		sums[a.Category] += clampScore(a.Score, e.settings.MaxScore)
		counts[a.Category]++
	}

	out := Aggregation{ByCategory: make([]CategoryAverage, 0, len(e.settings.Categories))}
	var total float64
	for _, c := range e.settings.Categories {
		avg := 0.0
		if counts[c] > 0 {
			avg = e.round(sums[c] / float64(counts[c]))
		}
		total += avg
		out.ByCategory = append(out.ByCategory, CategoryAverage{
			Category: c,
			Average:  avg,
			Answered: counts[c],
		})
	}
	if len(e.settings.Categories) > 0 {
		out.Overall = e.round(total / float64(len(e.settings.Categories)))
	}

	for k := range unknown {
		out.Unknown = append(out.Unknown, k)
	}
	sort.Strings(out.Unknown)
	return out
}

// clampScore treats NaN and either infinity as no score.
func clampScore(v, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (e *Engine) round(v float64) float64 {
	return roundTo(v, e.settings.Precision)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
