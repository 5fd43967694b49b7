// Package mail delivers contact-form messages to the site operator.
//
// The Sender interface keeps handlers independent of the delivery provider;
// the shipped implementation uses the Resend API.
package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
)

// Message is one contact-form submission.
type Message struct {
	Name    string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers a contact message.
type Sender interface {
	SendContact(ctx context.Context, msg Message) error
}

type resendSender struct {
	client *resend.Client
	from   string
	to     string
}

// NewResendSender builds a Sender backed by the Resend API. from must be an
// address under a domain verified in Resend; to is the operator's inbox.
func NewResendSender(apiKey, from, to string) Sender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (s *resendSender) SendContact(ctx context.Context, msg Message) error {
	subject := msg.Subject
	if subject == "" {
		subject = "New contact form message"
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
	<p><strong>From:</strong> %s &lt;%s&gt;</p>
	<p>%s</p>
</body>
</html>`, html.EscapeString(msg.Name), html.EscapeString(msg.ReplyTo), html.EscapeString(msg.Body))

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		ReplyTo: msg.ReplyTo,
		Subject: subject,
		Html:    body,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}
