package readiness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubCopy renders "key|var=value" so tests can assert on what was asked for.
type stubCopy struct{}

func (stubCopy) Text(lang, key string, vars map[string]string) string {
	var b strings.Builder
	b.WriteString(lang)
	b.WriteString(":")
	b.WriteString(key)
	for _, k := range []string{"count", "level", "percent", "keywords", "providers", "item"} {
		if v, ok := vars[k]; ok {
			b.WriteString("|" + k + "=" + v)
		}
	}
	return b.String()
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultSettings(), stubCopy{})
	require.NoError(t, err)
	return e
}

func newEngineWith(t *testing.T, mutate func(*Settings)) *Engine {
	t.Helper()
	s := DefaultSettings()
	mutate(&s)
	e, err := New(s, stubCopy{})
	require.NoError(t, err)
	return e
}

func answersFor(category string, scores ...float64) []Answer {
	out := make([]Answer, 0, len(scores))
	for i, s := range scores {
		out = append(out, Answer{
			QuestionID: category + "-" + string(rune('a'+i)),
			Category:   category,
			Score:      s,
		})
	}
	return out
}

func floatPtr(v float64) *float64 {
	return &v
}
