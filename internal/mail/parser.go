package mail

import (
	"fmt"
	"io"
	stdmail "net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
)

// ParseMessage decodes one raw RFC822 message into an Email. The plain-text
// part is preferred; HTML-only messages fall back to the converted text that
// enmime produces.
func ParseMessage(r io.Reader) (Email, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return Email{}, fmt.Errorf("%w: %v", ErrMessageParse, err)
	}

	body := strings.TrimSpace(env.Text)
	if body == "" {
		body = strings.TrimSpace(env.HTML)
	}

	email := Email{
		From:      env.GetHeader("From"),
		To:        env.GetHeader("To"),
		Subject:   env.GetHeader("Subject"),
		Body:      body,
		MessageID: strings.Trim(env.GetHeader("Message-Id"), "<>"),
	}

	if raw := env.GetHeader("Date"); raw != "" {
		if parsed, err := stdmail.ParseDate(raw); err == nil {
			email.Date = parsed
		}
	}
	if email.Date.IsZero() {
		email.Date = time.Now().UTC()
	}

	return email, nil
}
