// internal/workers/communication/send-result-summary/handler.go
package sendresultsummary

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rekonet-workers/internal/common/aws"
	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/metrics"
)

const (
	TaskType = "send-result-summary"
)

var (
	ErrNoRecipient = stderrors.New("NO_RECIPIENT")
	ErrSendFailed  = stderrors.New("NOTIFICATION_SEND_FAILED")
)

type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Messages interface {
	Text(lang, key string, vars map[string]string) string
}

type Handler struct {
	config   *Config
	sender   Sender
	messages Messages
	newID    func() string
	now      func() time.Time
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, sender Sender, messages Messages, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		sender:   sender,
		messages: messages,
		newID:    uuid.NewString,
		now:      time.Now,
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
	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	if channel == "" {
		channel = h.config.DefaultChannel
	}
	lang := input.Result.Language

	subject := h.messages.Text(lang, "email.subject", map[string]string{"tier": input.Result.Overall.Label})
	body := h.messages.Text(lang, "email.body", map[string]string{
		"headline": input.Result.Summary.Headline,
		"message":  input.Result.Summary.Message,
		"tier":     input.Result.Overall.Label,
		"path":     input.Result.PathLabel,
		"progress": strconv.Itoa(input.Result.Progress.Value),
		"prompt":   input.Result.Progress.NextPrompt,
	})

	var (
		messageID string
		recipient string
		err       error
	)
	switch channel {
	case ChannelEmail:
		recipient = strings.TrimSpace(input.Email)
		if recipient == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoRecipient, channel)
		}
		messageID, err = h.sender.SendEmail(ctx, recipient, subject, body)
	case ChannelSMS:
		recipient = strings.TrimSpace(input.Phone)
		if recipient == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoRecipient, channel)
		}
		messageID, err = h.sender.SendSMS(ctx, recipient, subject+"\n"+input.Result.Progress.NextPrompt)
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", ErrNoRecipient, channel)
	}
	if err != nil {
		if stderrors.Is(err, aws.ErrChannelDisabled) {
			return nil, fmt.Errorf("%w: %s disabled", ErrNoRecipient, channel)
		}
		return nil, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	out := &Output{
		NotificationID: h.newID(),
		Channel:        channel,
		MessageID:      messageID,
		Language:       lang,
		Sent:           true,
		SentAt:         h.now().UTC(),
	}
	h.logger.Info("result summary sent", map[string]interface{}{
		"assessmentId":   input.AssessmentID,
		"notificationId": out.NotificationID,
		"channel":        channel,
		"recipient":      recipient,
	})
	return out, nil
}

func (h *Handler) mapError(err error, input *Input) *errors.StandardError {
	channel := input.Channel
	if channel == "" {
		channel = h.config.DefaultChannel
	}
	switch {
	case stderrors.Is(err, ErrNoRecipient):
		return errors.NewNoRecipientError(channel).WithMetadata("reason", err.Error())
	case stderrors.Is(err, ErrSendFailed):
		return errors.NewNotificationSendFailedError(channel, err)
	default:
		return errors.NewInternalError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
