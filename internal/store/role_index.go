// internal/store/role_index.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"rekonet-workers/internal/readiness"
)

const DefaultRoleIndex = "role_profiles"

// RoleIndexMapping is the index body used when the role index is created.
// Titles get an edge n-gram subfield so partial goals autocomplete.
const RoleIndexMapping = `{
  "settings": {
    "analysis": {
      "analyzer": {
        "title_prefix": {"type": "custom", "tokenizer": "standard", "filter": ["lowercase", "title_edge"]}
      },
      "filter": {
        "title_edge": {"type": "edge_ngram", "min_gram": 2, "max_gram": 15}
      }
    }
  },
  "mappings": {
    "properties": {
      "title": {"type": "text", "fields": {"prefix": {"type": "text", "analyzer": "title_prefix", "search_analyzer": "standard"}}},
      "synonyms": {"type": "text"},
      "keywords": {"type": "keyword"},
      "min_overall_level": {"type": "keyword"}
    }
  }
}`

var ErrSearchFailed = errors.New("SEARCH_QUERY_FAILED")

// RoleHit is one autocompletion candidate.
type RoleHit struct {
	Title    string   `json:"title"`
	Score    float64  `json:"score"`
	Keywords []string `json:"keywords,omitempty"`
}

type roleDoc struct {
	Title           string   `json:"title"`
	Synonyms        []string `json:"synonyms,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	MinOverallLevel string   `json:"min_overall_level"`
}

// RoleIndex searches role titles in Elasticsearch for goal autocompletion.
type RoleIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewRoleIndex(client *elasticsearch.Client, index string) *RoleIndex {
	if index == "" {
		index = DefaultRoleIndex
	}
	return &RoleIndex{client: client, index: index}
}

func buildRoleQuery(text string, size int) map[string]interface{} {
	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     text,
				"fields":    []string{"title^3", "title.prefix^2", "synonyms^2", "keywords"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"title", "keywords"},
	}
}

// Search returns up to size titles ranked by relevance. size is clamped
// to 1..25.
func (r *RoleIndex) Search(ctx context.Context, text string, size int) ([]RoleHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []RoleHit{}, nil
	}
	if size <= 0 {
		size = 10
	}
	if size > 25 {
		size = 25
	}

	body, _ := json.Marshal(buildRoleQuery(text, size))
	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return []RoleHit{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source roleDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSearchFailed, err)
	}

	hits := make([]RoleHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, RoleHit{Title: h.Source.Title, Score: h.Score, Keywords: h.Source.Keywords})
	}
	return hits, nil
}

// IndexRoles bulk-indexes the catalog, using the lowercased title as the
// document id so re-indexing overwrites.
func (r *RoleIndex) IndexRoles(ctx context.Context, roles []readiness.RoleProfile, synonyms map[string][]string) error {
	if len(roles) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, role := range roles {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": r.index, "_id": strings.ToLower(role.Title)},
		}
		doc := roleDoc{
			Title:           role.Title,
			Synonyms:        synonyms[strings.ToLower(role.Title)],
			Keywords:        role.MustHaveKeywords,
			MinOverallLevel: role.MinOverallLevel,
		}
		metaLine, _ := json.Marshal(meta)
		docLine, _ := json.Marshal(doc)
		buf.Write(metaLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("bulk index roles: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index roles: %s", res.Status())
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("bulk index roles: decode: %w", err)
	}
	if result.Errors {
		return errors.New("bulk index roles: one or more documents failed")
	}
	return nil
}
