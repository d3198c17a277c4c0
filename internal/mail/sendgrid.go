package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer sends through a SendGrid dynamic template. The template
// receives the reset token and the recipient address as template data.
type SendGridMailer struct {
	client     *sendgrid.Client
	from       string
	templateID string
}

func NewSendGridMailer(apiKey, from, templateID string) *SendGridMailer {
	return &SendGridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		from:       from,
		templateID: templateID,
	}
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, recipient string, resetToken uuid.UUID) error {
	msg := sgmail.NewV3Mail()
	msg.SetFrom(sgmail.NewEmail("", m.from))
	msg.SetTemplateID(m.templateID)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", recipient))
	p.SetDynamicTemplateData("reset_token", resetToken.String())
	p.SetDynamicTemplateData("email", recipient)
	msg.AddPersonalizations(p)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}
