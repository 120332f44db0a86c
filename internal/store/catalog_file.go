// internal/store/catalog_file.go
package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"rekonet-workers/internal/readiness"
)

type catalogEntry struct {
	readiness.RoleProfile `yaml:",inline"`
	Synonyms              []string `yaml:"synonyms,omitempty"`
}

type catalogDoc struct {
	Roles []catalogEntry                   `yaml:"roles"`
	Goals map[string]readiness.GoalProfile `yaml:"goals,omitempty"`
}

// FileCatalog is a role catalog read from a YAML file. It seeds Postgres
// and Elasticsearch and backs the CLI when no database is configured.
type FileCatalog struct {
	Roles    []readiness.RoleProfile
	Synonyms map[string][]string
	Goals    map[string]readiness.GoalProfile
}

func LoadCatalogFile(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*FileCatalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse role catalog: %w", err)
	}

	fc := &FileCatalog{
		Roles:    make([]readiness.RoleProfile, 0, len(doc.Roles)),
		Synonyms: make(map[string][]string),
		Goals:    make(map[string]readiness.GoalProfile, len(doc.Goals)),
	}
	seen := make(map[string]bool, len(doc.Roles))
	for i, e := range doc.Roles {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, fmt.Errorf("parse role catalog: role %d has no title", i)
		}
		key := strings.ToLower(title)
		if seen[key] {
			return nil, fmt.Errorf("parse role catalog: duplicate role %q", title)
		}
		if e.MinOverallLevel != "" && readiness.LevelRank(e.MinOverallLevel) == 0 {
			return nil, fmt.Errorf("parse role catalog: role %q has unknown level %q", title, e.MinOverallLevel)
		}
		seen[key] = true
		e.RoleProfile.Title = title
		fc.Roles = append(fc.Roles, e.RoleProfile)
		if len(e.Synonyms) > 0 {
			fc.Synonyms[key] = e.Synonyms
		}
	}
	for goal, p := range doc.Goals {
		fc.Goals[strings.ToLower(strings.TrimSpace(goal))] = p
	}
	return fc, nil
}

func (f *FileCatalog) ListRoles(context.Context) ([]readiness.RoleProfile, error) {
	out := make([]readiness.RoleProfile, len(f.Roles))
	copy(out, f.Roles)
	return out, nil
}
