// Package readiness scores an employability self-assessment and matches
// the result against a role catalog. Everything here is a pure function of
// its arguments: no I/O, no logging, no state kept between calls.
package readiness

// Localizer resolves user-facing copy. Implementations fall back to English
// for unknown languages and substitute {name} placeholders from vars.
type Localizer interface {
	Text(lang, key string, vars map[string]string) string
}

// KeyLocalizer returns the key itself. It is used when no catalog is wired.
type KeyLocalizer struct{}

func (KeyLocalizer) Text(_ string, key string, _ map[string]string) string {
	return key
}

// Engine carries immutable settings and copy. It is safe for concurrent use.
type Engine struct {
	settings Settings
	copy     Localizer
}

func New(settings Settings, copy Localizer) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if copy == nil {
		copy = KeyLocalizer{}
	}
	return &Engine{settings: settings, copy: copy}, nil
}

// MustNew is New for settings known to be valid, such as DefaultSettings.
func MustNew(settings Settings, copy Localizer) *Engine {
	e, err := New(settings, copy)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) text(lang, key string, vars map[string]string) string {
	return e.copy.Text(lang, key, vars)
}
