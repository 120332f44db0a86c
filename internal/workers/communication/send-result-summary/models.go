// internal/workers/communication/send-result-summary/models.go
package sendresultsummary

import (
	"time"

	"rekonet-workers/internal/readiness"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type Input struct {
	AssessmentID string                  `json:"assessmentId"`
	Channel      string                  `json:"channel"`
	Email        string                  `json:"email"`
	Phone        string                  `json:"phone"`
	Result       readiness.ResultPayload `json:"result"`
}

type Output struct {
	NotificationID string    `json:"notificationId"`
	Channel        string    `json:"channel"`
	MessageID      string    `json:"messageId"`
	Language       string    `json:"language"`
	Sent           bool      `json:"sent"`
	SentAt         time.Time `json:"sentAt"`
}
