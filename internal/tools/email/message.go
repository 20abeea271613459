// Package email implements the mail-sending tools. Each invocation sends
// exactly one message through exactly one provider and returns the
// provider's message identifier on success.
package email

import (
	"fmt"
	"net/mail"
)

// Message is the provider-independent envelope built from tool parameters.
type Message struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	HTML    bool
}

// Validate checks the envelope before any provider call.
func (m *Message) Validate() error {
	if m.From == "" {
		return fmt.Errorf("sender address is required")
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("invalid sender address %q", m.From)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	for _, addr := range append(append(append([]string{}, m.To...), m.Cc...), m.Bcc...) {
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("invalid recipient address %q", addr)
		}
	}
	if m.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}
