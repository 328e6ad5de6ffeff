// cmd/tools/respond-test/main.go
//
// Offline harness: runs canned inquiry scenarios through the generation
// pipeline against the configured backend and prints the replies. No
// mailbox involved.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mail-assistant/internal/common/config"
	"mail-assistant/internal/common/logger"
	"mail-assistant/internal/knowledge"
	"mail-assistant/internal/llm"
	"mail-assistant/internal/mail"
	"mail-assistant/internal/pipeline"
)

type scenario struct {
	name  string
	email mail.Email
}

var scenarios = []scenario{
	{
		name: "appointment",
		email: mail.Email{
			From:    "Jane Doe <jane@example.com>",
			Subject: "Appointment Request",
			Body:    "Hello, I would like to schedule a visit for a skin check next week. Thank you!",
		},
	},
	{
		name: "services",
		email: mail.Email{
			From:    "Max Mustermann <max@example.com>",
			Subject: "Question about treatments",
			Body:    "Guten Tag, welche Behandlung bieten Sie bei Akne an?",
		},
	},
	{
		name: "costs",
		email: mail.Email{
			From:    "Jane Doe <jane@example.com>",
			Subject: "Insurance question",
			Body:    "Does my insurance cover the cost of a full-body screening?",
		},
	},
	{
		name: "emergency",
		email: mail.Email{
			From:    "Jane Doe <jane@example.com>",
			Subject: "Urgent: severe allergic reaction",
			Body:    "I have a sudden severe rash and swelling. What should I do?",
		},
	},
}

func main() {
	configPath := flag.String("config", "", "Optional explicit config file path")
	only := flag.String("scenario", "", "Run a single scenario by name")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured("warn", "console")

	profile, err := knowledge.Load(cfg.Knowledge.ProfilePath)
	if err != nil {
		fmt.Printf("Profile load failed: %v\n", err)
		os.Exit(1)
	}

	llmConfig := llm.ConfigFromApp(cfg.LLM)
	backend, err := llm.NewBackend(llmConfig, log)
	if err != nil {
		fmt.Printf("Backend selection failed: %v\n", err)
		os.Exit(1)
	}

	classifier := pipeline.NewClassifier(cfg.Intents.Keywords)
	responder := pipeline.NewResponder(classifier, profile, llmConfig, backend, log)

	fmt.Printf("Business: %s | Backend: %s (%s)\n\n", profile.Name, llmConfig.ModelType, backend.Model())

	for _, sc := range scenarios {
		if *only != "" && sc.name != *only {
			continue
		}

		intent := classifier.Classify(sc.email.Subject, sc.email.Body)
		fmt.Printf("=== Scenario: %s (intent: %s) ===\n", sc.name, intent)
		fmt.Printf("Subject: %s\n\n", sc.email.Subject)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		reply, err := responder.GenerateResponse(ctx, sc.email)
		cancel()
		if err != nil {
			fmt.Printf("FAILED: %v\n\n", err)
			continue
		}

		fmt.Printf("%s\n\n", reply)
	}
}
