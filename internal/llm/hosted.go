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

// HostedBackend talks to a hosted OpenAI-style API. The key is held by this
// client handle only; there is no package-level state.
type HostedBackend struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
	logger    logger.Logger
}

func NewHostedBackend(cfg Config, log logger.Logger) *HostedBackend {
	return &HostedBackend{
		baseURL:   strings.TrimRight(cfg.Hosted.BaseURL, "/"),
		apiKey:    cfg.Hosted.APIKey,
		model:     cfg.Hosted.Model,
		maxTokens: cfg.Hosted.MaxTokens,
		client: &http.Client{
			// No client timeout, rely only on context
		},
		logger: log.With(map[string]interface{}{
			"backend": "hosted",
			"model":   cfg.Hosted.Model,
		}),
	}
}

func (b *HostedBackend) Model() string {
	return b.model
}

func (b *HostedBackend) Generate(ctx context.Context, prompt PromptPair) (string, error) {
	requestBody := chatRequest{
		Model:       b.model,
		Messages:    messagesFor(prompt),
		Temperature: defaultTemperature,
		MaxTokens:   b.maxTokens,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

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
