// Package assistant runs the poll loop that ties mailbox monitoring,
// reply generation and delivery together.
package assistant

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"mail-assistant/internal/common/config"
	apperrors "mail-assistant/internal/common/errors"
	"mail-assistant/internal/common/logger"
	"mail-assistant/internal/common/metrics"
	"mail-assistant/internal/mail"
)

// addressPattern extracts the bare address from a raw From header like
// "Jane Doe <jane@example.com>".
var addressPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+`)

// ResponseGenerator produces one reply for one inbound email.
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, email mail.Email) (string, error)
}

// Assistant owns the fixed-interval poll loop. A single goroutine runs the
// loop; the fetcher's de-dup state is never touched concurrently.
type Assistant struct {
	config    config.AssistantConfig
	fetcher   mail.Fetcher
	sender    mail.Sender
	responder ResponseGenerator
	allowed   map[string]struct{}
	logger    logger.Logger
}

func New(cfg config.AssistantConfig, fetcher mail.Fetcher, sender mail.Sender, responder ResponseGenerator, log logger.Logger) *Assistant {
	allowed := make(map[string]struct{}, len(cfg.AllowedSenders))
	for _, addr := range cfg.AllowedSenders {
		allowed[strings.ToLower(strings.TrimSpace(addr))] = struct{}{}
	}
	return &Assistant{
		config:    cfg,
		fetcher:   fetcher,
		sender:    sender,
		responder: responder,
		allowed:   allowed,
		logger: log.With(map[string]interface{}{
			"component": "assistant",
		}),
	}
}

// ExtractAddress pulls the bare email address out of a From header. Returns
// an empty string when no address-shaped substring is present.
func ExtractAddress(from string) string {
	return addressPattern.FindString(from)
}

// IsSenderAllowed reports whether the raw From header resolves to a
// whitelisted address.
func (a *Assistant) IsSenderAllowed(from string) bool {
	address := strings.ToLower(ExtractAddress(from))
	if address == "" {
		return false
	}
	_, ok := a.allowed[address]
	return ok
}

// Run polls until the context is cancelled. Transport errors log and wait
// the retry delay; they never terminate the loop.
func (a *Assistant) Run(ctx context.Context) error {
	pollInterval := time.Duration(a.config.PollInterval) * time.Second
	retryDelay := time.Duration(a.config.RetryDelay) * time.Second

	a.logger.Info("assistant started", map[string]interface{}{
		"pollInterval": pollInterval.String(),
	})

	for {
		delay := pollInterval
		if err := a.ProcessCycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			a.logger.WithError(err).Error("poll cycle failed", map[string]interface{}{
				"retryDelay": retryDelay.String(),
			})
			delay = retryDelay
		}

		select {
		case <-ctx.Done():
			a.logger.Info("assistant stopping", nil)
			return nil
		case <-time.After(delay):
		}
	}

	a.logger.Info("assistant stopping", nil)
	return nil
}

// ProcessCycle fetches unread messages and handles each in turn. Per-email
// failures are isolated; only transport-level failures propagate.
func (a *Assistant) ProcessCycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.PollCycleDuration.Observe(time.Since(start).Seconds())
	}()

	emails, err := a.fetcher.FetchUnread(ctx)
	if err != nil {
		metrics.RepliesFailed.WithLabelValues(errorCodeFor(err)).Inc()
		return err
	}

	if a.config.MaxEmailsPerPoll > 0 && len(emails) > a.config.MaxEmailsPerPoll {
		emails = emails[:a.config.MaxEmailsPerPoll]
	}

	for _, email := range emails {
		a.processEmail(ctx, email)
	}

	return nil
}

func (a *Assistant) processEmail(ctx context.Context, email mail.Email) {
	log := a.logger.With(map[string]interface{}{
		"messageId": email.MessageID,
	})

	if !a.IsSenderAllowed(email.From) {
		metrics.EmailsSeen.WithLabelValues("skipped_sender").Inc()
		log.Debug("sender not whitelisted, skipping", nil)
		return
	}
	metrics.EmailsSeen.WithLabelValues("accepted").Inc()

	reply, err := a.responder.GenerateResponse(ctx, email)
	if err != nil {
		metrics.RepliesFailed.WithLabelValues(errorCodeFor(err)).Inc()
		log.WithError(err).Error("reply generation failed, skipping email", nil)
		return
	}

	to := ExtractAddress(email.From)
	subject := a.config.SubjectPrefix + email.Subject
	if err := a.sender.Send(ctx, to, subject, reply); err != nil {
		metrics.RepliesFailed.WithLabelValues(errorCodeFor(err)).Inc()
		log.WithError(err).Error("reply delivery failed", nil)
		return
	}

	metrics.RepliesSent.Inc()
	log.Info("reply sent", map[string]interface{}{
		"to": to,
	})
}

func errorCodeFor(err error) string {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	switch {
	case errors.Is(err, mail.ErrMailConnection):
		return string(apperrors.ErrCodeMailConnectionFailed)
	case errors.Is(err, mail.ErrMailFetch):
		return string(apperrors.ErrCodeMailFetchFailed)
	case errors.Is(err, mail.ErrMailSend):
		return string(apperrors.ErrCodeMailSendFailed)
	case errors.Is(err, mail.ErrMessageParse):
		return string(apperrors.ErrCodeMessageParseFailed)
	default:
		return "UNKNOWN"
	}
}
