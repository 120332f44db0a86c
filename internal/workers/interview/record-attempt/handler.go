// internal/workers/interview/record-attempt/handler.go
package recordattempt

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/common/validation"
	"rekonet-workers/internal/models"
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"
)

const (
	TaskType = "record-attempt"
)

var (
	ErrInvalidAttempt     = stderrors.New("INVALID_ATTEMPT")
	ErrAssessmentNotFound = stderrors.New("ASSESSMENT_NOT_FOUND")
	ErrSaveFailed         = stderrors.New("DATABASE_INSERT_FAILED")
	ErrQueryFailed        = stderrors.New("QUERY_EXECUTION_FAILED")
)

type Store interface {
	RecordInterviewAttempt(ctx context.Context, a *models.InterviewAttempt) error
	RecentInterviewAttempts(ctx context.Context, assessmentID string, limit int) ([]models.InterviewAttempt, error)
	InterviewSessionScore(ctx context.Context, assessmentID string) (float64, error)
}

type Handler struct {
	config *Config
	store  Store
	engine *readiness.Engine
	newID  func() string
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store Store, engine *readiness.Engine, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		engine: engine,
		newID:  uuid.NewString,
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
	if err := validation.Validate(validation.SchemaInterviewAttempt, input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAttempt, err)
	}

	rubric := h.engine.Settings()
	var mark readiness.AnswerScore
	if input.Score != nil {
		if *input.Score > rubric.MaxPerQuestion {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAttempt, scoreTooHigh(*input.Score, rubric.MaxPerQuestion))
		}
		mark.Score = *input.Score
	} else {
		mark = h.engine.ScoreAnswer(input.Answer, input.Language)
	}

	attempt := &models.InterviewAttempt{
		ID:           h.newID(),
		AssessmentID: input.AssessmentID,
		QuestionID:   input.QuestionID,
		Answer:       input.Answer,
		Score:        mark.Score,
	}
	if err := attempt.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAttempt, err)
	}

	if err := h.store.RecordInterviewAttempt(ctx, attempt); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
		}
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = h.config.RecentLimit
	}
	recent, err := h.store.RecentInterviewAttempts(ctx, input.AssessmentID, store.ClampAttemptLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	// a replica that has not seen the insert yet reports no rows
	session, err := h.store.InterviewSessionScore(ctx, input.AssessmentID)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		session = attempt.Score
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	best := attempt.Score
	for _, a := range recent {
		best = math.Max(best, a.Score)
	}

	h.logger.Debug("interview attempt recorded", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"attemptId":    attempt.ID,
		"score":        attempt.Score,
		"sessionScore": session,
		"marked":       input.Score == nil,
	})

	return &Output{
		AttemptID:    attempt.ID,
		AssessmentID: input.AssessmentID,
		QuestionID:   input.QuestionID,
		Score:        attempt.Score,
		Words:        mark.Words,
		Feedback:     mark.Feedback,
		QuestionPct:  questionPct(attempt.Score, rubric.MaxPerQuestion),
		SessionScore: session,
		InterviewPct: h.engine.InterviewPct(session),
		Recent:       recent,
		BestPct:      questionPct(best, rubric.MaxPerQuestion),
	}, nil
}

func scoreTooHigh(score, max float64) *validation.ValidationError {
	return &validation.ValidationError{
		Schema: validation.SchemaInterviewAttempt,
		Errors: []validation.FieldError{{
			Field:   "score",
			Message: fmt.Sprintf("Must be less than or equal to %g, got %g", max, score),
			Code:    "number_lte",
		}},
	}
}

// questionPct rounds to one decimal place.
func questionPct(score, max float64) float64 {
	return math.Round(math.Min(score, max)/max*1000) / 10
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, ErrInvalidAttempt):
		stdErr := errors.NewInvalidAttemptError(err.Error())
		var ve *validation.ValidationError
		if stderrors.As(err, &ve) {
			stdErr.WithMetadata("fieldErrors", ve.Errors)
		}
		return stdErr
	case stderrors.Is(err, ErrAssessmentNotFound):
		return errors.NewAssessmentNotFoundError(input.AssessmentID).
			WithMetadata("assessmentId", input.AssessmentID)
	case stderrors.Is(err, ErrSaveFailed):
		return errors.NewDatabaseInsertFailedError(err)
	case stderrors.Is(err, ErrQueryFailed):
		return errors.FromQueryError("interview attempts", err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
