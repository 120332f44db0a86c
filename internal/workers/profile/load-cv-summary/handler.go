// internal/workers/profile/load-cv-summary/handler.go
package loadcvsummary

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/models"
)

const (
	TaskType = "load-cv-summary"
)

var ErrQueryFailed = stderrors.New("QUERY_EXECUTION_FAILED")

type Store interface {
	LatestCVSummary(ctx context.Context, assessmentID string) (*models.CVSummary, error)
}

type Handler struct {
	config *Config
	store  Store
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store Store, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		errors: errors.NewErrorHandler(l),
		logger: l,
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
		stdErr := errors.Normalize(err)
		if stderrors.Is(err, ErrQueryFailed) {
			stdErr = errors.FromQueryError("latest cv", err)
		}
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
	summary, err := h.store.LatestCVSummary(ctx, input.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	if h.config.MaxKeywords > 0 && len(summary.Keywords) > h.config.MaxKeywords {
		summary.Keywords = summary.Keywords[:h.config.MaxKeywords]
	}

	h.logger.Debug("cv summary loaded", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"hasCV":        summary.HasCV,
		"keywords":     len(summary.Keywords),
	})
	return &Output{AssessmentID: input.AssessmentID, CVSummary: *summary}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
