// cmd/assistant/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mail-assistant/internal/assistant"
	"mail-assistant/internal/common/config"
	"mail-assistant/internal/common/logger"
	"mail-assistant/internal/knowledge"
	"mail-assistant/internal/llm"
	"mail-assistant/internal/mail"
	"mail-assistant/internal/pipeline"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting mail assistant...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	// --- Load business profile ---
	profile, err := knowledge.Load(cfg.Knowledge.ProfilePath)
	if err != nil {
		zapLog.Fatal("business profile load failed", zap.Error(err))
	}
	zapLog.Info("Business profile loaded", zap.String("business", profile.Name))

	// --- Generation backend ---
	llmConfig := llm.ConfigFromApp(cfg.LLM)
	backend, err := llm.NewBackend(llmConfig, log)
	if err != nil {
		zapLog.Fatal("backend selection failed", zap.Error(err))
	}
	zapLog.Info("Generation backend selected",
		zap.String("modelType", llmConfig.ModelType),
		zap.String("model", backend.Model()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Mailbox monitor with connection check ---
	monitor := mail.NewMonitor(cfg.Mailbox, log)
	err = retryWithBackoff(func() error {
		return monitor.CheckConnection(ctx)
	}, 5, 2*time.Second, zapLog, "IMAP connection")
	if err != nil {
		zapLog.Fatal("mailbox unreachable after retries", zap.Error(err))
	}
	zapLog.Info("Mailbox connection verified", zap.String("host", cfg.Mailbox.Host))

	// --- Outbound sender ---
	var sender mail.Sender
	switch cfg.Delivery.Provider {
	case "ses":
		sesSender, err := mail.NewSESSender(ctx, cfg.Delivery.AWS.Region, cfg.Delivery.AWS.SES.FromEmail, log)
		if err != nil {
			zapLog.Fatal("SES client init failed", zap.Error(err))
		}
		sender = sesSender
	default:
		smtpSender := mail.NewSMTPSender(cfg.Delivery, log)
		err = retryWithBackoff(func() error {
			return smtpSender.TestConnection(ctx)
		}, 5, 2*time.Second, zapLog, "SMTP connection")
		if err != nil {
			zapLog.Fatal("SMTP server unreachable after retries", zap.Error(err))
		}
		sender = smtpSender
	}
	zapLog.Info("Delivery provider ready", zap.String("provider", cfg.Delivery.Provider))

	// --- Pipeline ---
	classifier := pipeline.NewClassifier(cfg.Intents.Keywords)
	responder := pipeline.NewResponder(classifier, profile, llmConfig, backend, log)

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Poll loop ---
	app := assistant.New(cfg.Assistant, monitor, sender, responder, log)
	if err := app.Run(ctx); err != nil {
		zapLog.Fatal("assistant terminated", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
