// internal/workers/roles/search-role-catalog/handler_test.go
package searchrolecatalog

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"
)

type stubTransport struct {
	status int
	body   string
	err    error
	calls  int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: s.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Request:    req,
	}, nil
}

func newIndex(t *testing.T, tr *stubTransport) *store.RoleIndex {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{"http://es.test:9200"},
		Transport:    tr,
		DisableRetry: true,
	})
	require.NoError(t, err)
	return store.NewRoleIndex(client, "role_profiles")
}

type staticCatalog []readiness.RoleProfile

func (c staticCatalog) ListRoles(context.Context) ([]readiness.RoleProfile, error) {
	return c, nil
}

func TestHandler_Execute_FromIndex(t *testing.T) {
	tr := &stubTransport{status: 200, body: `{"hits":{"hits":[
		{"_score": 9.1, "_source": {"title": "Customer Service Advisor", "keywords": ["crm"]}},
		{"_score": 4.2, "_source": {"title": "Retail Assistant"}}
	]}}`}
	h := NewHandler(LoadConfig(), newIndex(t, tr), nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Query: "  customer  "})
	require.NoError(t, err)
	assert.Equal(t, "customer", output.Query)
	assert.Equal(t, "index", output.Source)
	require.Equal(t, 2, output.Count)
	assert.Equal(t, "Customer Service Advisor", output.Suggestions[0].Title)
	assert.Equal(t, 9.1, output.Suggestions[0].Score)
}

func TestHandler_Execute_MissingIndexIsEmpty(t *testing.T) {
	tr := &stubTransport{status: 404, body: `{"error":{"type":"index_not_found_exception"}}`}
	h := NewHandler(LoadConfig(), newIndex(t, tr), nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Query: "forklift"})
	require.NoError(t, err)
	assert.Equal(t, 0, output.Count)
	assert.NotNil(t, output.Suggestions)
}

func TestHandler_Execute_EmptyQuerySkipsSearch(t *testing.T) {
	tr := &stubTransport{status: 200, body: `{}`}
	h := NewHandler(LoadConfig(), newIndex(t, tr), nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Query: "   "})
	require.NoError(t, err)
	assert.Equal(t, 0, output.Count)
	assert.Equal(t, 0, tr.calls)
}

func TestHandler_Execute_IndexDown(t *testing.T) {
	catalog := staticCatalog{
		{Title: "Warehouse Operative", MustHaveKeywords: []string{"picking", "forklift"}},
		{Title: "Forklift Driver", MustHaveKeywords: []string{"forklift"}},
		{Title: "Retail Assistant"},
	}

	tests := []struct {
		name           string
		fallback       store.RoleCatalog
		expectErr      bool
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:      "no fallback fails the job",
			fallback:  nil,
			expectErr: true,
		},
		{
			name:     "catalog fallback ranks title matches first",
			fallback: catalog,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "catalog", output.Source)
				require.Equal(t, 2, output.Count)
				assert.Equal(t, "Forklift Driver", output.Suggestions[0].Title)
				assert.Equal(t, "Warehouse Operative", output.Suggestions[1].Title)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &stubTransport{err: stderrors.New("dial tcp 10.0.0.9:9200: connect: connection refused")}
			h := NewHandler(LoadConfig(), newIndex(t, tr), tt.fallback, logger.NewTestLogger(t))

			output, err := h.Execute(context.Background(), &Input{Query: "forklift"})
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSearchFailed)
				return
			}
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_SizeCapped(t *testing.T) {
	h := NewHandler(&Config{Timeout: LoadConfig().Timeout, MaxHits: 1, Index: "role_profiles"},
		&stubSearcher{}, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Query: "care", Size: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, h.index.(*stubSearcher).size)
}

type stubSearcher struct {
	size int
}

func (s *stubSearcher) Search(_ context.Context, _ string, size int) ([]store.RoleHit, error) {
	s.size = size
	return []store.RoleHit{}, nil
}
