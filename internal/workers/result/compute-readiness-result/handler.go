// internal/workers/result/compute-readiness-result/handler.go
package computereadinessresult

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/common/observability"
	"rekonet-workers/internal/common/validation"
	"rekonet-workers/internal/models"
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"
)

const (
	TaskType = "compute-readiness-result"
)

var (
	ErrAssessmentNotFound = stderrors.New("ASSESSMENT_NOT_FOUND")
	ErrQueryFailed        = stderrors.New("QUERY_EXECUTION_FAILED")
	ErrCatalogUnavailable = stderrors.New("CATALOG_UNAVAILABLE")
	ErrInvalidResult      = stderrors.New("INVALID_RESULT")
)

// Store is the slice of the repositories a result needs.
type Store interface {
	GetAssessment(ctx context.Context, id string) (*models.Assessment, error)
	ListAnswers(ctx context.Context, assessmentID string) ([]models.Answer, error)
	GetAvailability(ctx context.Context, assessmentID string) (*models.Availability, error)
	LatestCVSummary(ctx context.Context, assessmentID string) (*models.CVSummary, error)
	ListExperience(ctx context.Context, assessmentID string) ([]readiness.ExperienceEvidence, error)
	ListVerifiedCertificateProviders(ctx context.Context, assessmentID string) ([]string, error)
	store.SignalStore
}

type Handler struct {
	config  *Config
	store   Store
	catalog store.RoleCatalog
	engine  *readiness.Engine
	obs     *observability.Observability
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, st Store, catalog store.RoleCatalog, engine *readiness.Engine,
	obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		store:   st,
		catalog: catalog,
		engine:  engine,
		obs:     obs,
		errors:  errors.NewErrorHandler(l),
		logger:  l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	start := time.Now()
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
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (out *Output, err error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.String("assessment.id", input.AssessmentID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	assessment, err := h.store.GetAssessment(ctx, input.AssessmentID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, input.AssessmentID)
		}
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	lang := input.Language
	if lang == "" {
		lang = assessment.Language
	}

	answers, err := h.store.ListAnswers(ctx, assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	signals, err := h.loadSignals(ctx, assessment.ID, input)
	if err != nil {
		return nil, err
	}

	catalog, err := h.catalog.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	result := h.engine.ComputeResult(models.EngineAnswers(answers), catalog, signals, lang)

	if len(result.UnknownCategories) > 0 {
		h.logger.Warn("answers with unknown categories ignored", map[string]interface{}{
			"assessmentId": assessment.ID,
			"categories":   result.UnknownCategories,
		})
	}

	if h.config.ValidateOutput {
		if err := validation.Validate(validation.SchemaReadinessResult, toDocument(result)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
		}
	}

	metrics.RecordResult(string(result.Path), result.Overall.Code, float64(result.Progress.Value),
		len(result.RoleSuggestions.ReadyNow), len(result.RoleSuggestions.BridgeRoles))
	span.SetAttributes(
		attribute.String("readiness.tier", result.Overall.Code),
		attribute.String("readiness.path", string(result.Path)),
		attribute.Int("readiness.progress", result.Progress.Value),
		attribute.Int("roles.ready_now", len(result.RoleSuggestions.ReadyNow)),
		attribute.Int("roles.bridge", len(result.RoleSuggestions.BridgeRoles)),
	)

	h.logger.Info("readiness result computed", map[string]interface{}{
		"assessmentId": assessment.ID,
		"answers":      len(answers),
		"tier":         result.Overall.Code,
		"path":         result.Path,
		"progress":     result.Progress.Value,
	})

	return &Output{
		AssessmentID: assessment.ID,
		Result:       result,
		TierCode:     result.Overall.Code,
		Path:         result.Path,
		Progress:     result.Progress.Value,
		JobReady:     result.Progress.Value >= 100,
	}, nil
}

// loadSignals gathers everything outside the questionnaire. A user with no
// availability, CV, experience or certificates still gets a result.
func (h *Handler) loadSignals(ctx context.Context, assessmentID string, input *Input) (readiness.ExternalSignals, error) {
	sig := readiness.ExternalSignals{
		GoalTitle: input.GoalTitle,
		Location:  input.Location,
		Path:      input.PathSignals,
	}

	progress, err := store.LoadSignals(ctx, h.store, assessmentID, h.config.TotalActivities, h.engine.Settings().MaxInterviewScore)
	if err != nil {
		return sig, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	sig.ActivitiesPct = progress.ActivitiesPct
	sig.CVPct = progress.CVPct
	sig.InterviewPct = progress.InterviewPct

	availability, err := h.store.GetAvailability(ctx, assessmentID)
	switch {
	case err == nil:
		sig.Availability = availability.Engine()
	case !stderrors.Is(err, store.ErrNotFound):
		return sig, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	cv, err := h.store.LatestCVSummary(ctx, assessmentID)
	if err != nil {
		return sig, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	sig.CVKeywords = cv.Keywords

	experience, err := h.store.ListExperience(ctx, assessmentID)
	if err != nil {
		return sig, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	if len(experience) > 0 {
		sig.ExperienceMonthsByDomain = make(map[string]int, len(experience))
		for _, row := range experience {
			if row.Months <= 0 {
				continue
			}
			sig.ExperienceMonthsByDomain[row.Domain] += row.Months
		}
	}

	providers, err := h.store.ListVerifiedCertificateProviders(ctx, assessmentID)
	if err != nil {
		return sig, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	sig.CertificateProviders = providers

	return sig, nil
}

// toDocument round-trips through JSON so the schema sees the wire names.
func toDocument(result readiness.ResultPayload) interface{} {
	data, err := json.Marshal(result)
	if err != nil {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, ErrAssessmentNotFound):
		return errors.NewAssessmentNotFoundError(input.AssessmentID).
			WithMetadata("assessmentId", input.AssessmentID)
	case stderrors.Is(err, ErrCatalogUnavailable):
		return errors.FromQueryError("list roles", err)
	case stderrors.Is(err, ErrQueryFailed):
		return errors.FromQueryError("load readiness inputs", err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
