package email

import (
	"context"
	"fmt"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Toolset exposes the email tools, one per provider.
type Toolset struct {
	cfg *config.Config
}

// New creates the email toolset.
func New(cfg *config.Config) *Toolset {
	return &Toolset{cfg: cfg}
}

// Register adds all email tools to reg.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.RegisterAll(
		t.sendSMTPTool(),
		t.sendSendGridTool(),
		t.sendSESTool(),
	)
}

// envelopeFields are the schema fields shared by every provider tool.
func envelopeFields() schema.Schema {
	return schema.Schema{
		schema.String("from", "Sender address").Req(),
		schema.StringSlice("to", "Recipient addresses").Req(),
		schema.StringSlice("cc", "Carbon-copy addresses"),
		schema.StringSlice("bcc", "Blind-carbon-copy addresses"),
		schema.String("subject", "Message subject").Req(),
		schema.String("body", "Message body").Req(),
		schema.Bool("html", "Treat the body as HTML").Def(false),
	}
}

type envelopeInput struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Cc      []string `json:"cc"`
	Bcc     []string `json:"bcc"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	HTML    bool     `json:"html"`
}

func (in envelopeInput) message() *Message {
	return &Message{
		From:    in.From,
		To:      in.To,
		Cc:      in.Cc,
		Bcc:     in.Bcc,
		Subject: in.Subject,
		Body:    in.Body,
		HTML:    in.HTML,
	}
}

// smtpSettings resolves the transport parameters for one send. Per-call
// values win; the configured credential pair is used only when the caller
// supplied neither half, so a caller-provided username is never paired
// with the configured password or vice versa.
func (t *Toolset) smtpSettings(host string, port int, username, password string) SMTPSettings {
	s := SMTPSettings{Host: host, Port: port, Username: username, Password: password}
	if s.Host == "" {
		s.Host = t.cfg.SMTP.Host
	}
	if s.Username == "" && s.Password == "" {
		s.Username = t.cfg.SMTP.Username
		s.Password = t.cfg.SMTP.Password
	}
	return s
}

func (t *Toolset) sendSMTPTool() registry.Definition {
	fields := append(envelopeFields(),
		schema.String("host", "SMTP host; defaults to the configured server"),
		schema.Number("port", "SMTP port").Def(float64(587)),
		schema.String("username", "SMTP username"),
		schema.String("password", "SMTP password"),
	)
	return registry.Definition{
		Name:        "send_email_smtp",
		Description: "Send one email through an SMTP server and return its Message-ID.",
		Schema:      fields,
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				envelopeInput `json:",squash"`
				Host          string  `json:"host"`
				Port          float64 `json:"port"`
				Username      string  `json:"username"`
				Password      string  `json:"password"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			settings := t.smtpSettings(in.Host, int(in.Port), in.Username, in.Password)
			if settings.Host == "" {
				return domain.Errorf(domain.FailureExecution, "no SMTP host given or configured"), nil
			}

			msg := in.message()
			if msg.From == "" {
				msg.From = t.cfg.SMTP.From
			}
			if err := msg.Validate(); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			id, err := sendSMTP(ctx, settings, msg)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(fmt.Sprintf("message sent: %s", id)), nil
		},
	}
}

func (t *Toolset) sendSendGridTool() registry.Definition {
	return registry.Definition{
		Name:        "send_email_sendgrid",
		Description: "Send one email through the SendGrid API and return the provider message id.",
		Schema:      envelopeFields(),
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in envelopeInput
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			msg := in.message()
			if err := msg.Validate(); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			id, err := sendSendGrid(ctx, t.cfg.SendGridAPIKey, msg)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(fmt.Sprintf("message sent: %s", id)), nil
		},
	}
}

func (t *Toolset) sendSESTool() registry.Definition {
	fields := append(envelopeFields(),
		schema.String("region", "AWS region; defaults to the configured region"),
	)
	return registry.Definition{
		Name:        "send_email_ses",
		Description: "Send one email through Amazon SES and return the provider message id.",
		Schema:      fields,
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				envelopeInput `json:",squash"`
				Region        string `json:"region"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			msg := in.message()
			if err := msg.Validate(); err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			region := in.Region
			if region == "" {
				region = t.cfg.AWSRegion
			}

			id, err := sendSES(ctx, region, msg)
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}
			return domain.TextResult(fmt.Sprintf("message sent: %s", id)), nil
		},
	}
}
