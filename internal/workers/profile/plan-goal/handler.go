// internal/workers/profile/plan-goal/handler.go
package plangoal

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
	"rekonet-workers/internal/models"
	"rekonet-workers/internal/readiness"
)

const (
	TaskType = "plan-goal"
)

var ErrQueryFailed = stderrors.New("QUERY_EXECUTION_FAILED")

type Store interface {
	LatestCVSummary(ctx context.Context, assessmentID string) (*models.CVSummary, error)
}

type Handler struct {
	config   *Config
	store    Store
	engine   *readiness.Engine
	profiles map[string]readiness.GoalProfile
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

// NewHandler falls back to the built-in goal profiles when profiles is empty.
func NewHandler(config *Config, store Store, engine *readiness.Engine, profiles map[string]readiness.GoalProfile, log logger.Logger) *Handler {
	if len(profiles) == 0 {
		profiles = readiness.DefaultGoalProfiles()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		store:    store,
		engine:   engine,
		profiles: profiles,
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
	keywords := input.Keywords
	hasCV := len(keywords) > 0
	if !hasCV && input.AssessmentID != "" {
		summary, err := h.store.LatestCVSummary(ctx, input.AssessmentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		keywords, hasCV = summary.Keywords, summary.HasCV
	}

	plan, err := h.engine.PlanGoal(strings.TrimSpace(input.Goal), keywords, h.profiles, input.Language)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("goal planned", map[string]interface{}{
		"goal":    plan.Goal,
		"have":    len(plan.AlreadyHave),
		"missing": len(plan.GentlyMissing),
	})
	return &Output{AssessmentID: input.AssessmentID, HasCV: hasCV, GoalPlan: *plan}, nil
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, readiness.ErrUnknownGoal):
		return errors.NewUnknownGoalError(input.Goal).
			WithMetadata("knownGoals", h.knownGoals())
	case stderrors.Is(err, ErrQueryFailed):
		return errors.FromQueryError("latest cv", err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) knownGoals() []string {
	out := make([]string, 0, len(h.profiles))
	for goal := range h.profiles {
		out = append(out, goal)
	}
	return out
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
