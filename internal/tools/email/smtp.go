package email

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSettings are the transport parameters for one SMTP send.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
}

// buildSMTPMessage converts the envelope into a go-mail message with a
// generated Message-ID. Split from sending so it can be tested offline.
func buildSMTPMessage(m *Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(m.To...); err != nil {
		return nil, fmt.Errorf("setting recipients: %w", err)
	}
	if len(m.Cc) > 0 {
		if err := msg.Cc(m.Cc...); err != nil {
			return nil, fmt.Errorf("setting cc: %w", err)
		}
	}
	if len(m.Bcc) > 0 {
		if err := msg.Bcc(m.Bcc...); err != nil {
			return nil, fmt.Errorf("setting bcc: %w", err)
		}
	}
	msg.Subject(m.Subject)
	if m.HTML {
		msg.SetBodyString(gomail.TypeTextHTML, m.Body)
	} else {
		msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	}
	msg.SetMessageID()
	return msg, nil
}

// sendSMTP delivers one message and returns its Message-ID.
func sendSMTP(ctx context.Context, settings SMTPSettings, m *Message) (string, error) {
	msg, err := buildSMTPMessage(m)
	if err != nil {
		return "", err
	}

	opts := []gomail.Option{
		gomail.WithPort(settings.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if settings.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(settings.Username),
			gomail.WithPassword(settings.Password),
		)
	}

	client, err := gomail.NewClient(settings.Host, opts...)
	if err != nil {
		return "", fmt.Errorf("creating smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return msg.GetMessageID(), nil
}
