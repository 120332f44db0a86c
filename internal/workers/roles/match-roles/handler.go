// internal/workers/roles/match-roles/handler.go
package matchroles

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
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"
)

const (
	TaskType = "match-roles"
)

var ErrCatalogUnavailable = stderrors.New("CATALOG_UNAVAILABLE")

type Handler struct {
	config  *Config
	catalog store.RoleCatalog
	engine  *readiness.Engine
	copy    readiness.Localizer
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, catalog store.RoleCatalog, engine *readiness.Engine, copy readiness.Localizer, log logger.Logger) *Handler {
	if copy == nil {
		copy = readiness.KeyLocalizer{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		catalog: catalog,
		engine:  engine,
		copy:    copy,
		errors:  errors.NewErrorHandler(l),
		logger:  l,
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
		stdErr := h.mapError(err)
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
	catalog, err := h.catalog.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	lang := input.Language
	if lang == "" {
		lang = readiness.DefaultLanguage
	}
	in := readiness.MatchInput{
		LevelCode:            strings.ToUpper(strings.TrimSpace(input.LevelCode)),
		InterviewPct:         input.InterviewPct,
		CertificateProviders: input.CertificateProviders,
		CVKeywords:           input.CVKeywords,
		GoalTitle:            input.GoalTitle,
		Availability:         input.Availability,
		Location:             input.Location,
		Stage:                h.engine.StageFor(input.ExperienceMonths),
		Language:             lang,
	}
	suggestions := h.engine.MatchRoles(catalog, in)

	output := &Output{
		ReadyNow:    suggestions.ReadyNow,
		BridgeRoles: suggestions.BridgeRoles,
		Headings: Headings{
			ReadyNow:    h.copy.Text(lang, "ui.ready_heading", nil),
			BridgeRoles: h.copy.Text(lang, "ui.bridge_heading", nil),
		},
		ExperienceStage: in.Stage,
		CatalogSize:     len(catalog),
	}
	if h.config.IncludeBreakdown {
		for _, list := range [][]readiness.RoleSuggestion{suggestions.ReadyNow, suggestions.BridgeRoles} {
			for _, s := range list {
				output.Ranking = append(output.Ranking, RankedTitle{Title: s.Title, Breakdown: h.engine.Breakdown(s, in)})
			}
		}
	}

	h.logger.Info("roles matched", map[string]interface{}{
		"levelCode": in.LevelCode,
		"catalog":   len(catalog),
		"readyNow":  len(suggestions.ReadyNow),
		"bridge":    len(suggestions.BridgeRoles),
	})
	return output, nil
}

func (h *Handler) mapError(err error) *errors.StandardError {
	if stderrors.Is(err, ErrCatalogUnavailable) {
		return errors.FromQueryError("list roles", err)
	}
	return errors.NewInternalError(err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
