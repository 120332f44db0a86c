// internal/workers/assessment/set-language/handler.go
package setlanguage

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
	"rekonet-workers/internal/locale"
	"rekonet-workers/internal/store"
)

const (
	TaskType = "set-language"
)

var (
	ErrUnsupportedLanguage = stderrors.New("UNSUPPORTED_LANGUAGE")
	ErrAssessmentNotFound  = stderrors.New("ASSESSMENT_NOT_FOUND")
	ErrUpdateFailed        = stderrors.New("QUERY_EXECUTION_FAILED")
)

type Store interface {
	SetLanguage(ctx context.Context, id, lang string) error
}

type Languages interface {
	Supported(lang string) bool
}

type Handler struct {
	config    *Config
	store     Store
	languages Languages
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, store Store, languages Languages, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store,
		languages: languages,
		errors:    errors.NewErrorHandler(l),
		logger:    l,
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
		stdErr := h.mapError(err, &input)
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
	if input.Language == "" || !h.languages.Supported(input.Language) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, input.Language)
	}
	lang := locale.Canonical(input.Language)

	if err := h.store.SetLanguage(ctx, input.AssessmentID, lang); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
		}
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	return &Output{
		AssessmentID: input.AssessmentID,
		Language:     lang,
		Direction:    locale.Direction(lang),
	}, nil
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, ErrUnsupportedLanguage):
		return errors.NewUnsupportedLanguageError(input.Language)
	case stderrors.Is(err, ErrAssessmentNotFound):
		return errors.NewAssessmentNotFoundError(input.AssessmentID)
	case stderrors.Is(err, ErrUpdateFailed):
		return errors.FromQueryError("set language", err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
