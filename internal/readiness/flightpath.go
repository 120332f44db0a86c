package readiness

import "fmt"

type Step struct {
	Title string `json:"title"`
	Why   string `json:"why"`
	Next  string `json:"next"`
}

// FlightPath looks up the ordered next-action steps for a path. It is a
// table lookup; the copy lives in the Localizer under
// flightpath.<path>.<index>.{title,why,next}.
func (e *Engine) FlightPath(path Path, lang string) []Step {
	n := e.settings.FlightPathSteps[path]
	steps := make([]Step, 0, n)
	for i := 0; i < n; i++ {
		prefix := fmt.Sprintf("flightpath.%s.%d.", path, i)
		steps = append(steps, Step{
			Title: e.text(lang, prefix+"title", nil),
			Why:   e.text(lang, prefix+"why", nil),
			Next:  e.text(lang, prefix+"next", nil),
		})
	}
	return steps
}
