package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "mail-assistant/internal/common/errors"
	"mail-assistant/internal/common/logger"
	"mail-assistant/internal/common/metrics"
	"mail-assistant/internal/knowledge"
	"mail-assistant/internal/llm"
	"mail-assistant/internal/mail"
)

// Responder is the generation pipeline. Stateless across calls; the profile
// and template are read-only, so concurrent callers are safe.
type Responder struct {
	classifier  *Classifier
	profile     *knowledge.Profile
	template    string
	backend     llm.Backend
	backendName string
	disclosure  bool
	timeout     time.Duration
	logger      logger.Logger
}

func NewResponder(classifier *Classifier, profile *knowledge.Profile, cfg llm.Config, backend llm.Backend, log logger.Logger) *Responder {
	return &Responder{
		classifier:  classifier,
		profile:     profile,
		template:    cfg.SystemPrompt,
		backend:     backend,
		backendName: cfg.ModelType,
		disclosure:  cfg.Disclosure,
		timeout:     cfg.Timeout,
		logger: log.With(map[string]interface{}{
			"component": "responder",
		}),
	}
}

// GenerateResponse runs classify, context build, prompt assembly and
// backend dispatch for one email and returns the trimmed reply text.
func (r *Responder) GenerateResponse(ctx context.Context, email mail.Email) (string, error) {
	intent := r.classifier.Classify(email.Subject, email.Body)
	intentContext := BuildContext(intent, r.profile)
	prompt := Assemble(email, r.profile, r.template, intentContext)

	r.logger.Debug("generating reply", map[string]interface{}{
		"intent":    string(intent),
		"messageId": email.MessageID,
	})

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.backend.Generate(ctx, prompt)
	metrics.GenerationDuration.WithLabelValues(r.backendName).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", apperrors.NewGenerationFailedError(err)
	}

	text = strings.TrimSpace(text)
	if r.disclosure {
		text = fmt.Sprintf("%s\n\n[Generated by %s]", text, r.backend.Model())
	}

	return text, nil
}
