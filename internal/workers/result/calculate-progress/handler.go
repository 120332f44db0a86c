// internal/workers/result/calculate-progress/handler.go
package calculateprogress

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
	"rekonet-workers/internal/readiness"
)

const (
	TaskType = "calculate-progress"
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

// execute never fails: the scorer clamps every input and treats an
// unknown level as the lowest.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	level := strings.ToUpper(strings.TrimSpace(input.LevelCode))
	p := h.engine.ScoreProgress(level, readiness.ProgressSignals{
		ActivitiesPct: input.ActivitiesPct,
		CVPct:         input.CVPct,
		InterviewPct:  input.InterviewPct,
	}, input.Language)

	if readiness.LevelRank(level) == 0 {
		h.logger.Warn("unknown level code scored as lowest", map[string]interface{}{"levelCode": input.LevelCode})
	}

	return &Output{
		Value:       p.Value,
		Band:        p.Band,
		WithinReach: p.WithinReach,
		JobReady:    p.Value >= 100,
		NextPrompt:  p.NextPrompt,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
