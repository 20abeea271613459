package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// buildSendGridMessage converts the envelope into a SendGrid V3 payload.
func buildSendGridMessage(m *Message) *sgmail.SGMailV3 {
	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgmail.NewEmail("", m.From))
	v3.Subject = m.Subject

	p := sgmail.NewPersonalization()
	for _, addr := range m.To {
		p.AddTos(sgmail.NewEmail("", addr))
	}
	for _, addr := range m.Cc {
		p.AddCCs(sgmail.NewEmail("", addr))
	}
	for _, addr := range m.Bcc {
		p.AddBCCs(sgmail.NewEmail("", addr))
	}
	v3.AddPersonalizations(p)

	contentType := "text/plain"
	if m.HTML {
		contentType = "text/html"
	}
	v3.AddContent(sgmail.NewContent(contentType, m.Body))
	return v3
}

// sendSendGrid delivers one message through the SendGrid API and returns
// the X-Message-Id assigned by the provider.
func sendSendGrid(ctx context.Context, apiKey string, m *Message) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("sendgrid api key is not configured")
	}

	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.SendWithContext(ctx, buildSendGridMessage(m))
	if err != nil {
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid rejected the message (status %d): %s", resp.StatusCode, resp.Body)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return fmt.Sprintf("accepted (status %d)", resp.StatusCode), nil
}
