package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mail-assistant/internal/common/logger"
)

func localConfig(baseURL string) Config {
	var cfg Config
	cfg.ModelType = "local"
	cfg.Local.BaseURL = baseURL
	cfg.Local.Model = "llama-3-8b"
	return cfg
}

func TestLocalBackend_Generate(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Thank you for your inquiry.  "}}]}`))
	}))
	defer server.Close()

	backend := NewLocalBackend(localConfig(server.URL), logger.NewNoOpLogger())

	text, err := backend.Generate(context.Background(), PromptPair{
		System: "You are a medical office assistant.",
		User:   "When can I book an appointment?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your inquiry.", text)

	assert.Equal(t, "llama-3-8b", captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 0.0001)
	assert.Zero(t, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "You are a medical office assistant.", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestLocalBackend_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	backend := NewLocalBackend(localConfig(server.URL), logger.NewNoOpLogger())

	_, err := backend.Generate(context.Background(), PromptPair{User: "hello"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}

func TestLocalBackend_Generate_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	backend := NewLocalBackend(localConfig(server.URL), logger.NewNoOpLogger())

	_, err := backend.Generate(context.Background(), PromptPair{User: "hello"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}

func TestLocalBackend_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	backend := NewLocalBackend(localConfig(server.URL), logger.NewNoOpLogger())

	_, err := backend.Generate(context.Background(), PromptPair{User: "hello"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}

func TestLocalBackend_Generate_ConnectionRefused(t *testing.T) {
	backend := NewLocalBackend(localConfig("http://127.0.0.1:1"), logger.NewNoOpLogger())

	_, err := backend.Generate(context.Background(), PromptPair{User: "hello"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}

func TestNewBackend_Selection(t *testing.T) {
	log := logger.NewNoOpLogger()

	local := localConfig("http://localhost:8080/v1")
	backend, err := NewBackend(local, log)
	require.NoError(t, err)
	assert.IsType(t, &LocalBackend{}, backend)

	var hosted Config
	hosted.ModelType = "hosted"
	hosted.Hosted.BaseURL = "https://api.openai.com/v1"
	hosted.Hosted.APIKey = "sk-test"
	hosted.Hosted.Model = "gpt-4"
	backend, err = NewBackend(hosted, log)
	require.NoError(t, err)
	assert.IsType(t, &HostedBackend{}, backend)

	var unknown Config
	unknown.ModelType = "quantum"
	_, err = NewBackend(unknown, log)
	require.Error(t, err)
}
