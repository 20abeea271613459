package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() *Message {
	return &Message{
		From:    "dev@example.com",
		To:      []string{"ops@example.com"},
		Subject: "deploy finished",
		Body:    "all green",
	}
}

func TestMessageValidate(t *testing.T) {
	assert.NoError(t, validMessage().Validate())
}

func TestMessageValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Message)
		want   string
	}{
		{"missing sender", func(m *Message) { m.From = "" }, "sender address is required"},
		{"bad sender", func(m *Message) { m.From = "not-an-address" }, "invalid sender"},
		{"no recipients", func(m *Message) { m.To = nil }, "at least one recipient"},
		{"bad recipient", func(m *Message) { m.To = []string{"broken@"} }, "invalid recipient"},
		{"bad cc", func(m *Message) { m.Cc = []string{"also broken"} }, "invalid recipient"},
		{"missing subject", func(m *Message) { m.Subject = "" }, "subject is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMessage()
			tc.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBuildSMTPMessage(t *testing.T) {
	m := validMessage()
	m.Cc = []string{"lead@example.com"}

	msg, err := buildSMTPMessage(m)
	require.NoError(t, err)

	// A Message-ID must be minted at build time so the tool can report it.
	assert.NotEmpty(t, msg.GetMessageID())
}

func TestBuildSMTPMessage_BadAddress(t *testing.T) {
	m := validMessage()
	m.From = "nope"

	_, err := buildSMTPMessage(m)
	assert.Error(t, err)
}

func TestBuildSendGridMessage(t *testing.T) {
	m := validMessage()
	m.Bcc = []string{"audit@example.com"}
	m.HTML = true

	v3 := buildSendGridMessage(m)

	assert.Equal(t, "dev@example.com", v3.From.Address)
	assert.Equal(t, "deploy finished", v3.Subject)
	require.Len(t, v3.Personalizations, 1)
	require.Len(t, v3.Personalizations[0].To, 1)
	assert.Equal(t, "ops@example.com", v3.Personalizations[0].To[0].Address)
	require.Len(t, v3.Personalizations[0].BCC, 1)
	require.Len(t, v3.Content, 1)
	assert.Equal(t, "text/html", v3.Content[0].Type)
	assert.Equal(t, "all green", v3.Content[0].Value)
}

func TestBuildSESInput(t *testing.T) {
	m := validMessage()

	in := buildSESInput(m)

	assert.Equal(t, "dev@example.com", *in.FromEmailAddress)
	assert.Equal(t, []string{"ops@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "deploy finished", *in.Content.Simple.Subject.Data)
	require.NotNil(t, in.Content.Simple.Body.Text)
	assert.Nil(t, in.Content.Simple.Body.Html)
	assert.Equal(t, "all green", *in.Content.Simple.Body.Text.Data)
}

func TestBuildSESInput_HTML(t *testing.T) {
	m := validMessage()
	m.HTML = true

	in := buildSESInput(m)

	require.NotNil(t, in.Content.Simple.Body.Html)
	assert.Nil(t, in.Content.Simple.Body.Text)
}
