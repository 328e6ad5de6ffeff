package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mail-assistant/internal/common/errors"
	"mail-assistant/internal/common/logger"
	"mail-assistant/internal/llm"
	"mail-assistant/internal/mail"
)

// stubBackend records prompts and returns a canned reply.
type stubBackend struct {
	model   string
	reply   string
	err     error
	calls   int
	prompts []llm.PromptPair
}

func (s *stubBackend) Generate(_ context.Context, prompt llm.PromptPair) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubBackend) Model() string {
	return s.model
}

func newTestResponder(backend llm.Backend, disclosure bool) *Responder {
	var cfg llm.Config
	cfg.ModelType = "local"
	cfg.SystemPrompt = "You are a helpful assistant."
	cfg.Disclosure = disclosure
	return NewResponder(NewClassifier(nil), testProfile(), cfg, backend, logger.NewNoOpLogger())
}

func TestGenerateResponse_EndToEnd(t *testing.T) {
	backend := &stubBackend{model: "llama-3-8b", reply: "  We would be happy to see you.  "}
	responder := newTestResponder(backend, false)

	text, err := responder.GenerateResponse(context.Background(), mail.Email{
		From:    "a@x.com",
		Subject: "Appointment Request",
		Body:    "I would like to schedule a visit",
	})
	require.NoError(t, err)
	assert.Equal(t, "We would be happy to see you.", text)

	require.Equal(t, 1, backend.calls)
	prompt := backend.prompts[0]
	// Appointment intent surfaces the booking context, and the body verbatim
	assert.Contains(t, prompt.User, "Booking Information:")
	assert.Contains(t, prompt.User, "open")
	assert.Contains(t, prompt.User, "I would like to schedule a visit")
	assert.Contains(t, prompt.System, "Hautzentrum Beispielstadt")
}

func TestGenerateResponse_DisclosureToggle(t *testing.T) {
	backend := &stubBackend{model: "llama-3-8b", reply: "Thank you."}

	withDisclosure := newTestResponder(backend, true)
	text, err := withDisclosure.GenerateResponse(context.Background(), mail.Email{Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Thank you.\n\n[Generated by llama-3-8b]", text)

	withoutDisclosure := newTestResponder(backend, false)
	text, err = withoutDisclosure.GenerateResponse(context.Background(), mail.Email{Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Thank you.", text)
}

func TestGenerateResponse_BackendFailure(t *testing.T) {
	backend := &stubBackend{err: errors.New("connection refused")}
	responder := newTestResponder(backend, false)

	_, err := responder.GenerateResponse(context.Background(), mail.Email{Subject: "hi"})
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeGenerationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "connection refused")
}
