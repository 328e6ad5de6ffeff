// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like MAILBOX_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not present
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations
func loadEnvFile() {
	// Try multiple paths (for running from different directories)
	possiblePaths := []string{
		".env",          // Current directory
		"../.env",       // Parent directory
		"../../.env",    // Two levels up
		"../../../.env", // Three levels up
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				fmt.Printf("Loaded .env from: %s\n", path)
				return
			}
		}
	}

	fmt.Printf(".env file not found in any location, using system environment variables\n")
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Expand ${VAR} placeholders found in string config values
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if secret values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Mailbox.Password == "" {
		if val := os.Getenv("MAILBOX_PASSWORD"); val != "" {
			cfg.Mailbox.Password = val
		}
	}
	if cfg.Mailbox.Username == "" {
		if val := os.Getenv("MAILBOX_USERNAME"); val != "" {
			cfg.Mailbox.Username = val
		}
	}

	if cfg.Delivery.SMTP.Password == "" {
		if val := os.Getenv("SMTP_PASSWORD"); val != "" {
			cfg.Delivery.SMTP.Password = val
		}
	}
	if cfg.Delivery.SMTP.Username == "" {
		if val := os.Getenv("SMTP_USERNAME"); val != "" {
			cfg.Delivery.SMTP.Username = val
		}
	}

	if cfg.LLM.Hosted.APIKey == "" {
		if val := os.Getenv("LLM_API_KEY"); val != "" {
			cfg.LLM.Hosted.APIKey = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Poll-loop defaults
	if cfg.Assistant.PollInterval == 0 {
		cfg.Assistant.PollInterval = 60
	}
	if cfg.Assistant.RetryDelay == 0 {
		cfg.Assistant.RetryDelay = 60
	}
	if cfg.Assistant.SubjectPrefix == "" {
		cfg.Assistant.SubjectPrefix = "Re: "
	}

	// Mailbox defaults
	if cfg.Mailbox.Port == 0 {
		cfg.Mailbox.Port = 993
	}
	if cfg.Mailbox.Folder == "" {
		cfg.Mailbox.Folder = "INBOX"
	}

	// Delivery defaults
	if cfg.Delivery.Provider == "" {
		cfg.Delivery.Provider = "smtp"
	}
	if cfg.Delivery.SMTP.Port == 0 {
		cfg.Delivery.SMTP.Port = 587
	}

	// LLM defaults
	if cfg.LLM.ModelType == "" {
		cfg.LLM.ModelType = "local"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60000
	}
	if cfg.LLM.Hosted.Model == "" {
		cfg.LLM.Hosted.Model = "gpt-4"
	}
	if cfg.LLM.Hosted.MaxTokens == 0 {
		cfg.LLM.Hosted.MaxTokens = 500
	}
	if cfg.LLM.Hosted.BaseURL == "" {
		cfg.LLM.Hosted.BaseURL = "https://api.openai.com/v1"
	}

	// Knowledge defaults
	if cfg.Knowledge.ProfilePath == "" {
		cfg.Knowledge.ProfilePath = "configs/business_profile.json"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Mailbox.Host == "" {
		return fmt.Errorf("mailbox.host is required")
	}
	if cfg.Mailbox.Username == "" {
		return fmt.Errorf("mailbox.username is required")
	}

	switch cfg.Delivery.Provider {
	case "smtp":
		if cfg.Delivery.SMTP.Host == "" {
			return fmt.Errorf("delivery.smtp.host is required")
		}
	case "ses":
		if cfg.Delivery.AWS.Region == "" {
			return fmt.Errorf("delivery.aws.region is required")
		}
		if cfg.Delivery.AWS.SES.FromEmail == "" {
			return fmt.Errorf("delivery.aws.ses.from_email is required")
		}
	default:
		return fmt.Errorf("delivery.provider must be smtp or ses, got %q", cfg.Delivery.Provider)
	}

	switch cfg.LLM.ModelType {
	case "local":
		if cfg.LLM.Local.BaseURL == "" {
			return fmt.Errorf("llm.local.base_url is required")
		}
		if cfg.LLM.Local.Model == "" {
			return fmt.Errorf("llm.local.model is required")
		}
	case "hosted":
		if cfg.LLM.Hosted.APIKey == "" {
			return fmt.Errorf("llm.hosted.api_key is required")
		}
	default:
		return fmt.Errorf("llm.model_type must be local or hosted, got %q", cfg.LLM.ModelType)
	}

	if len(cfg.Assistant.AllowedSenders) == 0 {
		return fmt.Errorf("assistant.allowed_senders is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
