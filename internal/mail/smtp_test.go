package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mail-assistant/internal/common/config"
	"mail-assistant/internal/common/logger"
)

func smtpDeliveryConfig() config.DeliveryConfig {
	var cfg config.DeliveryConfig
	cfg.Provider = "smtp"
	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Port = 587
	cfg.SMTP.Username = "office@example-derm.de"
	cfg.SMTP.Password = "secret"
	cfg.SMTP.UseTLS = true
	cfg.SMTP.DefaultFrom = "office@example-derm.de"
	return cfg
}

func TestBuildMessage_Headers(t *testing.T) {
	sender := NewSMTPSender(smtpDeliveryConfig(), logger.NewNoOpLogger())

	message := sender.buildMessage(
		"office@example-derm.de",
		"jane@example.com",
		"Re: Appointment Request",
		"We would be happy to see you.",
	)

	headerPart, bodyPart, found := strings.Cut(message, "\r\n\r\n")
	require.True(t, found)

	assert.Contains(t, headerPart, "From: office@example-derm.de\r\n")
	assert.Contains(t, headerPart, "To: jane@example.com\r\n")
	assert.Contains(t, headerPart, "Subject: Re: Appointment Request\r\n")
	assert.Contains(t, headerPart, "MIME-Version: 1.0\r\n")
	assert.Contains(t, headerPart, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, headerPart, "Message-ID: <")
	assert.Contains(t, headerPart, "@smtp.example.com>")

	assert.Equal(t, "We would be happy to see you.", bodyPart)
}

func TestBuildMessage_UniqueMessageIDs(t *testing.T) {
	sender := NewSMTPSender(smtpDeliveryConfig(), logger.NewNoOpLogger())

	first := sender.buildMessage("a@b.co", "c@d.co", "s", "b")
	second := sender.buildMessage("a@b.co", "c@d.co", "s", "b")
	assert.NotEqual(t, first, second)
}

func TestSend_InvalidAddresses(t *testing.T) {
	sender := NewSMTPSender(smtpDeliveryConfig(), logger.NewNoOpLogger())

	err := sender.Send(context.Background(), "not-an-address", "subject", "body")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMailSend))

	cfg := smtpDeliveryConfig()
	cfg.SMTP.DefaultFrom = ""
	sender = NewSMTPSender(cfg, logger.NewNoOpLogger())
	err = sender.Send(context.Background(), "jane@example.com", "subject", "body")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMailSend))
}

func TestSend_CancelledContext(t *testing.T) {
	sender := NewSMTPSender(smtpDeliveryConfig(), logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, "jane@example.com", "subject", "body")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMailSend))
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{" jane@example.com ", true},
		{"jane@example", false},
		{"jane", false},
		{"@example.com", false},
		{"jane@", false},
		{"", false},
		{"a@b@c.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidEmail(tt.email))
		})
	}
}
