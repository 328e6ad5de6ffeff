package llm

import (
	"fmt"
	"time"

	"mail-assistant/internal/common/config"
	"mail-assistant/internal/common/logger"
)

// Config holds the backend selection and per-backend settings.
type Config struct {
	ModelType    string
	SystemPrompt string
	Disclosure   bool
	Timeout      time.Duration

	Local struct {
		BaseURL string
		Model   string
	}

	Hosted struct {
		BaseURL   string
		APIKey    string
		Model     string
		MaxTokens int
	}
}

// ConfigFromApp maps the application config section into a backend config.
func ConfigFromApp(cfg config.LLMConfig) Config {
	out := Config{
		ModelType:    cfg.ModelType,
		SystemPrompt: cfg.SystemPrompt,
		Disclosure:   cfg.Disclosure,
		Timeout:      config.GetDuration(cfg.Timeout),
	}
	out.Local.BaseURL = cfg.Local.BaseURL
	out.Local.Model = cfg.Local.Model
	out.Hosted.BaseURL = cfg.Hosted.BaseURL
	out.Hosted.APIKey = cfg.Hosted.APIKey
	out.Hosted.Model = cfg.Hosted.Model
	out.Hosted.MaxTokens = cfg.Hosted.MaxTokens
	return out
}

// NewBackend selects the configured backend once at startup.
func NewBackend(cfg Config, log logger.Logger) (Backend, error) {
	switch cfg.ModelType {
	case "local":
		return NewLocalBackend(cfg, log), nil
	case "hosted":
		return NewHostedBackend(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown model type %q", cfg.ModelType)
	}
}
