// Package validation checks job payloads against the JSON schemas shipped
// with the workers.
package validation

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	SchemaAvailability     = "availability"
	SchemaInterviewAttempt = "interview-attempt"
	SchemaReadinessResult  = "readiness-result"
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationError lists every violation found in one document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", ve.Schema, strings.Join(parts, "; "))
}

var (
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
	compileOnce sync.Once
)

func load() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		entries, err := schemaFS.ReadDir("schemas")
		if err != nil {
			compileErr = err
			return
		}
		compiled = make(map[string]*gojsonschema.Schema, len(entries))
		for _, e := range entries {
			data, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
			if err != nil {
				compileErr = err
				return
			}
			s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", e.Name(), err)
				return
			}
			compiled[strings.TrimSuffix(e.Name(), ".json")] = s
		}
	})
	return compiled, compileErr
}

// Schemas returns the names of the embedded schemas.
func Schemas() []string {
	all, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a decoded document (maps, slices, scalars or a struct)
// against a named schema. It returns a *ValidationError for violations and
// a plain error when the schema itself is missing or broken.
func Validate(schema string, document interface{}) error {
	all, err := load()
	if err != nil {
		return err
	}
	s, ok := all[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}
	return check(schema, s, gojsonschema.NewGoLoader(document))
}

// ValidateJSON is Validate for raw JSON bytes.
func ValidateJSON(schema string, raw []byte) error {
	all, err := load()
	if err != nil {
		return err
	}
	s, ok := all[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}
	return check(schema, s, gojsonschema.NewBytesLoader(raw))
}

func check(name string, s *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return ve
}
