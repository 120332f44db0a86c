// internal/workers/jobs/build-live-job-links/handler.go
package buildlivejoblinks

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/jobsearch"
	"rekonet-workers/internal/readiness"
)

const (
	TaskType = "build-live-job-links"
)

type Handler struct {
	config *Config
	engine *readiness.Engine
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, engine *readiness.Engine, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: engine,
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
		done(string(stdErr.Code))
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	done("")
	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	stage := h.engine.StageFor(input.ExperienceMonths)
	links := jobsearch.BuildLinks(jobsearch.Query{
		Goal:         input.Goal,
		Stage:        stage,
		Place:        input.Place,
		Keywords:     input.Keywords,
		Availability: input.Availability,
	})

	if input.Goal == "" {
		h.logger.Warn("building links without a goal", map[string]interface{}{"keywords": len(input.Keywords)})
	}

	out := &Output{Links: links, Stage: stage}
	if input.Place != "" {
		out.Radius = jobsearch.Radius(input.Place)
	}
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
