// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Mailbox   MailboxConfig   `mapstructure:"mailbox"`
	Delivery  DeliveryConfig  `mapstructure:"delivery"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Intents   IntentsConfig   `mapstructure:"intents"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AssistantConfig holds the poll-loop settings.
type AssistantConfig struct {
	PollInterval     int      `mapstructure:"poll_interval"` // seconds
	RetryDelay       int      `mapstructure:"retry_delay"`   // seconds
	AllowedSenders   []string `mapstructure:"allowed_senders"`
	SubjectPrefix    string   `mapstructure:"subject_prefix"`
	MaxEmailsPerPoll int      `mapstructure:"max_emails_per_poll"`
}

// MailboxConfig holds IMAP settings for the monitored inbox.
type MailboxConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Folder   string `mapstructure:"folder"`
}

// GetAddress returns the host:port dial address for the IMAP server.
func (m MailboxConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// DeliveryConfig selects and configures the outbound mail provider.
type DeliveryConfig struct {
	Provider string `mapstructure:"provider"` // "smtp" or "ses"

	SMTP struct {
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		Username    string `mapstructure:"username"`
		Password    string `mapstructure:"password"`
		UseTLS      bool   `mapstructure:"use_tls"`
		DefaultFrom string `mapstructure:"default_from"`
	} `mapstructure:"smtp"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
	} `mapstructure:"aws"`
}

// LLMConfig holds the generation backend settings.
type LLMConfig struct {
	ModelType    string `mapstructure:"model_type"` // "local" or "hosted"
	SystemPrompt string `mapstructure:"system_prompt"`
	Disclosure   bool   `mapstructure:"disclosure"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds

	Local struct {
		BaseURL string `mapstructure:"base_url"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"local"`

	Hosted struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		Model     string `mapstructure:"model"`
		MaxTokens int    `mapstructure:"max_tokens"`
	} `mapstructure:"hosted"`
}

// KnowledgeConfig points at the business profile document.
type KnowledgeConfig struct {
	ProfilePath string `mapstructure:"profile_path"`
}

// IntentsConfig allows overriding the built-in keyword sets per intent.
type IntentsConfig struct {
	Keywords map[string][]string `mapstructure:"keywords"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
