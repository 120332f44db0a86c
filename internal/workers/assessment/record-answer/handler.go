// internal/workers/assessment/record-answer/handler.go
package recordanswer

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
	"rekonet-workers/internal/store"
)

const (
	TaskType = "record-answer"
)

var (
	ErrInvalidAnswer      = stderrors.New("INVALID_ANSWER")
	ErrAssessmentNotFound = stderrors.New("ASSESSMENT_NOT_FOUND")
	ErrSaveFailed         = stderrors.New("DATABASE_INSERT_FAILED")
	ErrQueryFailed        = stderrors.New("QUERY_EXECUTION_FAILED")
)

type Store interface {
	SaveAnswer(ctx context.Context, a *models.Answer) error
	ListAnswers(ctx context.Context, assessmentID string) ([]models.Answer, error)
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
	question, ok := models.FindQuestion(input.QuestionID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown question %q", ErrInvalidAnswer, input.QuestionID)
	}

	answer := &models.Answer{
		AssessmentID: input.AssessmentID,
		QuestionID:   question.ID,
		Category:     question.Category,
		Score:        input.Score,
	}
	if err := answer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}

	if err := h.store.SaveAnswer(ctx, answer); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
		}
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	answers, err := h.store.ListAnswers(ctx, input.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	total := len(models.QuestionBank)
	h.logger.Debug("answer recorded", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"questionId":   question.ID,
		"answered":     len(answers),
	})

	return &Output{
		AssessmentID:   input.AssessmentID,
		QuestionID:     question.ID,
		Category:       question.Category,
		Score:          input.Score,
		AnsweredCount:  len(answers),
		TotalQuestions: total,
		Complete:       len(answers) >= total,
	}, nil
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, ErrInvalidAnswer):
		return errors.NewInvalidAnswerError(err.Error())
	case stderrors.Is(err, ErrAssessmentNotFound):
		return errors.NewAssessmentNotFoundError(input.AssessmentID).
			WithMetadata("assessmentId", input.AssessmentID)
	case stderrors.Is(err, ErrSaveFailed):
		return errors.NewDatabaseInsertFailedError(err)
	case stderrors.Is(err, ErrQueryFailed):
		return errors.FromQueryError("list answers", err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
