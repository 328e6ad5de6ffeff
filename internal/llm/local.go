package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mail-assistant/internal/common/logger"
)

// LocalBackend talks to a self-hosted OpenAI-compatible server, such as a
// llama.cpp or vLLM deployment.
type LocalBackend struct {
	baseURL string
	model   string
	client  *http.Client
	logger  logger.Logger
}

func NewLocalBackend(cfg Config, log logger.Logger) *LocalBackend {
	return &LocalBackend{
		baseURL: strings.TrimRight(cfg.Local.BaseURL, "/"),
		model:   cfg.Local.Model,
		client: &http.Client{
			// No client timeout, rely only on context
		},
		logger: log.With(map[string]interface{}{
			"backend": "local",
			"model":   cfg.Local.Model,
		}),
	}
}

func (b *LocalBackend) Model() string {
	return b.model
}

func (b *LocalBackend) Generate(ctx context.Context, prompt PromptPair) (string, error) {
	requestBody := chatRequest{
		Model:       b.model,
		Messages:    messagesFor(prompt),
		Temperature: defaultTemperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}

	text, err := apiResponse.content()
	if err != nil {
		return "", err
	}

	b.logger.Debug("generation completed", map[string]interface{}{
		"responseLength": len(text),
	})

	return text, nil
}
