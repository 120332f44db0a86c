// internal/workers/roles/search-role-catalog/handler.go
package searchrolecatalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"
)

const (
	TaskType = "search-role-catalog"
)

var ErrSearchFailed = stderrors.New("SEARCH_QUERY_FAILED")

type Searcher interface {
	Search(ctx context.Context, text string, size int) ([]store.RoleHit, error)
}

type Handler struct {
	config   *Config
	index    Searcher
	fallback store.RoleCatalog
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

// NewHandler builds the handler. fallback may be nil, in which case an
// index failure fails the job.
func NewHandler(config *Config, index Searcher, fallback store.RoleCatalog, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		index:    index,
		fallback: fallback,
		errors:   errors.NewErrorHandler(l),
		logger:   l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	done := metrics.JobStarted(TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		done(string(errors.ErrCodeParseError))
		h.errors.HandleJobError(context.Background(), client, job, errors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := errors.NewSearchQueryFailedError(h.config.Index, err)
		done(string(stdErr.Code))
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	done("")
	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(input.Query)
	size := input.Size
	if size <= 0 || size > h.config.MaxHits {
		size = h.config.MaxHits
	}

	hits, err := h.index.Search(ctx, query, size)
	source := "index"
	if err != nil {
		if h.fallback == nil {
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
		h.logger.Warn("role index unavailable, searching catalog", map[string]interface{}{"error": err.Error()})
		hits, err = h.searchCatalog(ctx, query, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
		source = "catalog"
	}

	return &Output{
		Query:       query,
		Suggestions: hits,
		Count:       len(hits),
		Source:      source,
	}, nil
}

// searchCatalog matches the query against titles and must-have keywords.
// Title matches rank above keyword matches; ties keep catalog order.
func (h *Handler) searchCatalog(ctx context.Context, query string, size int) ([]store.RoleHit, error) {
	hits := []store.RoleHit{}
	if query == "" {
		return hits, nil
	}
	roles, err := h.fallback.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	terms := []string{query}
	var byTitle, byKeyword []store.RoleHit
	for _, r := range roles {
		switch {
		case readiness.ContainsAny(r.Title, terms):
			byTitle = append(byTitle, store.RoleHit{Title: r.Title, Score: 2, Keywords: r.MustHaveKeywords})
		case readiness.ContainsAny(strings.Join(r.MustHaveKeywords, " "), terms):
			byKeyword = append(byKeyword, store.RoleHit{Title: r.Title, Score: 1, Keywords: r.MustHaveKeywords})
		}
	}
	hits = append(append(hits, byTitle...), byKeyword...)
	if len(hits) > size {
		hits = hits[:size]
	}
	return hits, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
