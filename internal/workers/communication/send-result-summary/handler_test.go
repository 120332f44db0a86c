// internal/workers/communication/send-result-summary/handler_test.go
package sendresultsummary

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/common/aws"
	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/locale"
	"rekonet-workers/internal/readiness"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

var fixedNow = time.Date(2026, 10, 2, 8, 30, 0, 0, time.UTC)

func newTestHandler(t *testing.T, sesSvc aws.EmailSender, snsSvc aws.SMSSender) *Handler {
	notifier := aws.NewNotifier(sesSvc, snsSvc, "hello@rekonet.test", "Rekonet")
	h := NewHandler(LoadConfig(), notifier, locale.MustNew(), logger.NewTestLogger(t))
	h.newID = func() string { return "n-1" }
	h.now = func() time.Time { return fixedNow }
	return h
}

func sampleResult() readiness.ResultPayload {
	engine := readiness.MustNew(readiness.DefaultSettings(), locale.MustNew())
	answers := []readiness.Answer{
		{QuestionID: "cv-1", Category: "cv", Score: 2},
		{QuestionID: "int-1", Category: "interview", Score: 2},
	}
	return engine.ComputeResult(answers, nil, readiness.ExternalSignals{}, "en")
}

func TestHandler_Execute_Email(t *testing.T) {
	var sent *ses.SendEmailInput
	h := newTestHandler(t, &MockSESService{
		SendEmailFunc: func(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sent = in
			return &ses.SendEmailOutput{MessageId: awssdk.String("ses-123")}, nil
		},
	}, nil)

	result := sampleResult()
	output, err := h.Execute(context.Background(), &Input{AssessmentID: "a-1", Email: "sam@example.com", Result: result})
	require.NoError(t, err)

	assert.Equal(t, "n-1", output.NotificationID)
	assert.Equal(t, ChannelEmail, output.Channel)
	assert.Equal(t, "ses-123", output.MessageID)
	assert.Equal(t, fixedNow, output.SentAt)
	assert.True(t, output.Sent)

	require.NotNil(t, sent)
	assert.Equal(t, []string{"sam@example.com"}, sent.Destination.ToAddresses)
	assert.Equal(t, "Your Rekonet result: "+result.Overall.Label, awssdk.ToString(sent.Message.Subject.Data))
	body := awssdk.ToString(sent.Message.Body.Text.Data)
	assert.Contains(t, body, "Your starting point")
	assert.Contains(t, body, "Path: "+result.PathLabel)
	assert.Contains(t, body, result.Progress.NextPrompt)
}

func TestHandler_Execute_SMS(t *testing.T) {
	var published *sns.PublishInput
	h := newTestHandler(t, nil, &MockSNSService{
		PublishFunc: func(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = in
			return &sns.PublishOutput{MessageId: awssdk.String("sns-9")}, nil
		},
	})

	output, err := h.Execute(context.Background(), &Input{Channel: "SMS", Phone: "+447700900123", Result: sampleResult()})
	require.NoError(t, err)
	assert.Equal(t, ChannelSMS, output.Channel)
	assert.Equal(t, "sns-9", output.MessageID)
	assert.Equal(t, "+447700900123", awssdk.ToString(published.PhoneNumber))
	assert.Contains(t, awssdk.ToString(published.Message), "Your Rekonet result")
}

func TestHandler_Execute_Errors(t *testing.T) {
	failingSES := &MockSESService{
		SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, stderrors.New("throttled")
		},
	}

	tests := []struct {
		name         string
		ses          aws.EmailSender
		input        *Input
		expectedCode errors.ErrorCode
		retryable    bool
	}{
		{
			name:         "email without address",
			ses:          failingSES,
			input:        &Input{Channel: ChannelEmail},
			expectedCode: errors.ErrCodeNoRecipient,
		},
		{
			name:         "sms without phone",
			input:        &Input{Channel: ChannelSMS},
			expectedCode: errors.ErrCodeNoRecipient,
		},
		{
			name:         "unknown channel",
			input:        &Input{Channel: "pigeon", Email: "sam@example.com"},
			expectedCode: errors.ErrCodeNoRecipient,
		},
		{
			name:         "channel not configured",
			input:        &Input{Channel: ChannelSMS, Phone: "+447700900123"},
			expectedCode: errors.ErrCodeNoRecipient,
		},
		{
			name:         "provider failure is retried",
			ses:          failingSES,
			input:        &Input{Email: "sam@example.com"},
			expectedCode: errors.ErrCodeNotificationSendFailed,
			retryable:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.ses, nil)
			tt.input.Result = sampleResult()

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)

			stdErr := h.mapError(err, tt.input)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}
