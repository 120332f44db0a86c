// internal/workers/assessment/create-assessment/handler.go
package createassessment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/locale"
	"rekonet-workers/internal/models"
)

const (
	TaskType = "create-assessment"
)

var (
	ErrUnsupportedLanguage = stderrors.New("UNSUPPORTED_LANGUAGE")
	ErrInsertFailed        = stderrors.New("DATABASE_INSERT_FAILED")
)

type Store interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) error
}

type Messages interface {
	Text(lang, key string, vars map[string]string) string
	Supported(lang string) bool
}

type Handler struct {
	config   *Config
	store    Store
	messages Messages
	errors   *errors.ErrorHandler
	logger   logger.Logger
	newID    func() string
}

func NewHandler(config *Config, store Store, messages Messages, log logger.Logger) *Handler {
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = locale.Fallback
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		store:    store,
		messages: messages,
		errors:   errors.NewErrorHandler(l),
		logger:   l,
		newID:    uuid.NewString,
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
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	lang := h.config.DefaultLanguage
	if input.Language != "" {
		if !h.messages.Supported(input.Language) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, input.Language)
		}
		lang = locale.Canonical(input.Language)
	}

	a := &models.Assessment{
		ID:       h.newID(),
		UserID:   input.UserID,
		Language: lang,
	}
	if err := h.store.CreateAssessment(ctx, a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	h.logger.Info("assessment created", map[string]interface{}{
		"assessmentId": a.ID,
		"language":     lang,
	})

	return &Output{
		AssessmentID: a.ID,
		Language:     lang,
		Direction:    locale.Direction(lang),
		Intro:        h.messages.Text(lang, "intro", nil),
		Questions:    h.questions(lang),
		Scale:        h.scale(lang),
	}, nil
}

func (h *Handler) questions(lang string) []QuestionView {
	out := make([]QuestionView, 0, len(models.QuestionBank))
	for _, q := range models.QuestionBank {
		out = append(out, QuestionView{
			ID:       q.ID,
			Category: q.Category,
			Text:     h.messages.Text(lang, "question."+q.ID, nil),
		})
	}
	return out
}

func (h *Handler) scale(lang string) []ScaleOption {
	out := make([]ScaleOption, 0, models.ScaleMax-models.ScaleMin+1)
	for v := models.ScaleMin; v <= models.ScaleMax; v++ {
		out = append(out, ScaleOption{
			Value: v,
			Label: h.messages.Text(lang, "scale."+strconv.Itoa(v), nil),
		})
	}
	return out
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, ErrUnsupportedLanguage):
		return errors.NewUnsupportedLanguageError(input.Language)
	case stderrors.Is(err, ErrInsertFailed):
		return errors.NewDatabaseInsertFailedError(err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
