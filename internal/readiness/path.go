package readiness

type Path string

const (
	PathFoundations Path = "foundations"
	PathPrecision   Path = "precision"
)

// PathSignals are extra votes supplied by callers, such as completed
// advanced activities. Both default to zero.
type PathSignals struct {
	Pro         int `json:"proSignals"`
	Foundations int `json:"foundationsSignals"`
}

// SelectPath votes between the two tracks and breaks ties on the overall
// average.
func (e *Engine) SelectPath(overall float64, byCategory []CategoryAverage, signals PathSignals) Path {
	s := e.settings

	highCats, lowCats := 0, 0
	for _, c := range byCategory {
		if c.Average >= s.HighCategory {
			highCats++
		}
		if c.Average <= s.LowCategory {
			lowCats++
		}
	}

	pro := signals.Pro
	if overall >= s.ProOverall {
		pro++
	}
	if highCats >= s.CategoryQuorum {
		pro++
	}

	foundations := signals.Foundations
	if overall <= s.FoundationsOverall {
		foundations++
	}
	if lowCats >= s.CategoryQuorum {
		foundations++
	}

	switch {
	case pro >= s.SignalQuorum && foundations < s.SignalQuorum:
		return PathPrecision
	case foundations >= s.SignalQuorum && pro < s.SignalQuorum:
		return PathFoundations
	case overall >= s.TieBreakOverall:
		return PathPrecision
	default:
		return PathFoundations
	}
}
