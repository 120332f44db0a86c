// internal/workers/profile/save-availability/handler.go
package saveavailability

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
	"rekonet-workers/internal/common/validation"
	"rekonet-workers/internal/models"
	"rekonet-workers/internal/store"
)

const (
	TaskType = "save-availability"
)

var (
	ErrInvalidAvailability = stderrors.New("INVALID_AVAILABILITY")
	ErrAssessmentNotFound  = stderrors.New("ASSESSMENT_NOT_FOUND")
	ErrSaveFailed          = stderrors.New("DATABASE_INSERT_FAILED")
)

type Store interface {
	SaveAvailability(ctx context.Context, a *models.Availability) error
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
	if len(input.Availability) == 0 || string(input.Availability) == "null" {
		return nil, fmt.Errorf("%w: availability is required", ErrInvalidAvailability)
	}

	if err := validation.ValidateJSON(validation.SchemaAvailability, input.Availability); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAvailability, err)
	}

	var availability models.Availability
	if err := json.Unmarshal(input.Availability, &availability); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}
	availability.AssessmentID = input.AssessmentID
	if err := availability.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}

	if err := h.store.SaveAvailability(ctx, &availability); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
		}
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	days := availability.Days.List()
	if days == nil {
		days = []string{}
	}
	h.logger.Info("availability saved", map[string]interface{}{
		"assessmentId":  input.AssessmentID,
		"contract":      availability.Contract,
		"travelMinutes": availability.TravelMinutes,
		"days":          len(days),
	})

	return &Output{
		AssessmentID: input.AssessmentID,
		Availability: availability,
		Days:         days,
		Saved:        true,
	}, nil
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, ErrInvalidAvailability):
		stdErr := errors.NewInvalidAvailabilityError(err.Error())
		var ve *validation.ValidationError
		if stderrors.As(err, &ve) {
			stdErr.WithMetadata("fieldErrors", FieldErrors(ve.Errors))
		}
		return stdErr
	case stderrors.Is(err, ErrAssessmentNotFound):
		return errors.NewAssessmentNotFoundError(input.AssessmentID)
	case stderrors.Is(err, ErrSaveFailed):
		return errors.NewDatabaseInsertFailedError(err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
