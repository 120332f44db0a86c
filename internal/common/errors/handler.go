// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	baseRetryBackoff = 2 * time.Second
	maxRetryBackoff  = time.Minute
)

// ErrorHandler turns a worker error into a Zeebe fail or throw command.
type ErrorHandler struct {
	logger Logger
}

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError fails the job with retries for retryable technical errors
// that still have retries left, and throws a BPMN error otherwise. Business
// outcomes such as UNKNOWN_GOAL are logged at warn, everything else at error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	fields := h.fields(job, stdErr, bpmnErr)
	if bpmnErr.Retries > 0 && job.Retries > 1 {
		remaining, backoff := retryPlan(job.Retries, bpmnErr.Retries)
		fields["retriesLeft"] = remaining
		fields["backoff"] = backoff.String()
		h.logger.Error("job failed, retrying", fields)
		h.send(ctx, job, "fail", h.failCommand(client, job, bpmnErr, remaining, backoff))
		return
	}

	if stdErr.Retryable {
		h.logger.Error("job failed, retries exhausted", fields)
	} else {
		h.logger.Warn("job rejected", fields)
	}
	h.send(ctx, job, "throw", h.throwCommand(client, job, bpmnErr))
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// retryPlan decrements the job's remaining retries without raising them
// above the code's budget, and doubles the backoff for each retry used.
func retryPlan(jobRetries int32, budget int) (int, time.Duration) {
	remaining := int(jobRetries) - 1
	if remaining > budget {
		remaining = budget
	}
	used := budget - remaining
	if used < 0 {
		used = 0
	}
	backoff := baseRetryBackoff << used
	if backoff > maxRetryBackoff {
		backoff = maxRetryBackoff
	}
	return remaining, backoff
}

type sender interface {
	Send(ctx context.Context) (interface{}, error)
}

// sendFunc adapts the typed Zeebe Send methods to sender.
type sendFunc func(ctx context.Context) (interface{}, error)

func (f sendFunc) Send(ctx context.Context) (interface{}, error) { return f(ctx) }

func (h *ErrorHandler) failCommand(client worker.JobClient, job entities.Job, bpmnErr *BPMNError, remaining int, backoff time.Duration) sender {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(remaining)).
		ErrorMessage(bpmnErr.Message).
		RetryBackoff(backoff)

	if vars, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(vars)); err == nil {
			return sendFunc(func(ctx context.Context) (interface{}, error) { return withVars.Send(ctx) })
		}
	}
	return sendFunc(func(ctx context.Context) (interface{}, error) { return cmd.Send(ctx) })
}

func (h *ErrorHandler) throwCommand(client worker.JobClient, job entities.Job, bpmnErr *BPMNError) sender {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(vars)); err == nil {
			return sendFunc(func(ctx context.Context) (interface{}, error) { return withVars.Send(ctx) })
		}
	}
	return sendFunc(func(ctx context.Context) (interface{}, error) { return cmd.Send(ctx) })
}

func (h *ErrorHandler) send(ctx context.Context, job entities.Job, op string, cmd sender) {
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("could not report job outcome to zeebe", map[string]interface{}{
			"jobKey":    job.Key,
			"operation": op,
			"error":     err.Error(),
		})
	}
}

func (h *ErrorHandler) fields(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) map[string]interface{} {
	fields := map[string]interface{}{
		"jobKey":             job.Key,
		"jobType":            job.Type,
		"processInstanceKey": job.ProcessInstanceKey,
		"errorCode":          string(stdErr.Code),
		"errorCategory":      GetErrorCategory(stdErr.Code),
		"message":            bpmnErr.Message,
		"retryable":          stdErr.Retryable,
		"jobRetries":         job.Retries,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	for k, v := range stdErr.Metadata {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	return fields
}
