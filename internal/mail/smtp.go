package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"mail-assistant/internal/common/config"
	"mail-assistant/internal/common/logger"
)

// SMTPSender delivers plain-text replies over SMTP with STARTTLS.
type SMTPSender struct {
	config config.DeliveryConfig
	logger logger.Logger
}

func NewSMTPSender(cfg config.DeliveryConfig, log logger.Logger) *SMTPSender {
	return &SMTPSender{
		config: cfg,
		logger: log.With(map[string]interface{}{
			"component": "smtp-sender",
		}),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context cancelled before sending: %v", ErrMailSend, err)
	}

	from := s.config.SMTP.DefaultFrom
	if !isValidEmail(to) {
		return fmt.Errorf("%w: invalid 'to' address: %s", ErrMailSend, to)
	}
	if !isValidEmail(from) {
		return fmt.Errorf("%w: invalid 'from' address: %s", ErrMailSend, from)
	}

	message := s.buildMessage(from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTP.Host, s.config.SMTP.Port)

	var auth smtp.Auth
	if s.config.SMTP.Username != "" && s.config.SMTP.Password != "" {
		auth = smtp.PlainAuth("", s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Host)
	}

	var err error
	if s.config.SMTP.UseTLS {
		err = s.sendWithTLS(addr, auth, from, []string{to}, []byte(message))
	} else {
		err = smtp.SendMail(addr, auth, from, []string{to}, []byte(message))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}

	s.logger.Info("reply sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})

	return nil
}

func (s *SMTPSender) buildMessage(from, to, subject, body string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", from))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", uuid.NewString(), s.config.SMTP.Host))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)

	return builder.String()
}

func (s *SMTPSender) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: s.config.SMTP.Host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// TestConnection verifies the SMTP server is reachable. Used at startup.
func (s *SMTPSender) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrMailConnection, err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTP.Host, s.config.SMTP.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailConnection, err)
	}
	defer client.Close()

	if s.config.SMTP.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.SMTP.Host,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("%w: failed to start TLS: %v", ErrMailConnection, err)
		}
	}

	return client.Quit()
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
}
