// Package llm provides the chat-completion backends used to generate replies.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrGenerationFailed = errors.New("GENERATION_FAILED")

// defaultTemperature is fixed for both backends.
const defaultTemperature = 0.7

// PromptPair carries one assembled system+user prompt. It is ephemeral and
// never logged.
type PromptPair struct {
	System string
	User   string
}

// Backend generates one reply for an assembled prompt. Implementations do
// not retry; the caller decides what a failure means.
type Backend interface {
	Generate(ctx context.Context, prompt PromptPair) (string, error)
	Model() string
}

// chatMessage, chatRequest and chatResponse follow the OpenAI-style
// chat-completions wire format that both backends speak.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *chatResponse) content() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrGenerationFailed)
	}
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}

func messagesFor(prompt PromptPair) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}
}
