package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelierlabs/workbench/internal/config"
)

func newToolsetWithSMTP(t *testing.T) *Toolset {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.SMTP.Host = "mail.internal"
	cfg.SMTP.Username = "cfg-user"
	cfg.SMTP.Password = "cfg-pass"
	return New(cfg)
}

func TestSMTPSettings_CallerValuesWin(t *testing.T) {
	ts := newToolsetWithSMTP(t)

	s := ts.smtpSettings("smtp.example.com", 2525, "caller-user", "caller-pass")

	assert.Equal(t, "smtp.example.com", s.Host)
	assert.Equal(t, 2525, s.Port)
	assert.Equal(t, "caller-user", s.Username)
	assert.Equal(t, "caller-pass", s.Password)
}

func TestSMTPSettings_ConfigPairOnlyWhenBothEmpty(t *testing.T) {
	ts := newToolsetWithSMTP(t)

	s := ts.smtpSettings("", 587, "", "")
	assert.Equal(t, "mail.internal", s.Host)
	assert.Equal(t, "cfg-user", s.Username)
	assert.Equal(t, "cfg-pass", s.Password)
}

func TestSMTPSettings_CallerUsernameNotPairedWithConfigPassword(t *testing.T) {
	ts := newToolsetWithSMTP(t)

	s := ts.smtpSettings("", 587, "caller-user", "")

	assert.Equal(t, "caller-user", s.Username)
	assert.Equal(t, "", s.Password)
}

func TestSMTPSettings_CallerPasswordNotOverwrittenByConfig(t *testing.T) {
	ts := newToolsetWithSMTP(t)

	s := ts.smtpSettings("", 587, "", "caller-pass")

	assert.Equal(t, "", s.Username)
	assert.Equal(t, "caller-pass", s.Password)
}
