// internal/common/aws/notifier.go
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

var ErrChannelDisabled = errors.New("CHANNEL_DISABLED")

// Notifier sends plain text email through SES and transactional SMS
// through SNS. A nil sender disables its channel.
type Notifier struct {
	email    EmailSender
	sms      SMSSender
	from     string
	senderID string
}

func NewNotifier(email EmailSender, sms SMSSender, from, senderID string) *Notifier {
	return &Notifier{email: email, sms: sms, from: from, senderID: senderID}
}

func (n *Notifier) EmailEnabled() bool { return n != nil && n.email != nil }

func (n *Notifier) SMSEnabled() bool { return n != nil && n.sms != nil }

// SendEmail returns the SES message id.
func (n *Notifier) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	if !n.EmailEnabled() {
		return "", ErrChannelDisabled
	}
	out, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(n.from),
	})
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// SendSMS returns the SNS message id.
func (n *Notifier) SendSMS(ctx context.Context, phone, message string) (string, error) {
	if !n.SMSEnabled() {
		return "", ErrChannelDisabled
	}
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if n.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType: aws.String("String"), StringValue: aws.String(n.senderID),
		}
	}
	out, err := n.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
