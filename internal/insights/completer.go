// Package insights turns an analyst's earnings-call questions into an
// LLM scorecard and answers chat questions about their commentary.
package insights

import (
	"context"
	"errors"
)

var (
	// ErrNoQuestions is returned when a scorecard is requested for nothing
	ErrNoQuestions = errors.New("no questions provided")
	// ErrNotConfigured is returned when no completion provider is set up
	ErrNotConfigured = errors.New("openai api key not configured")
	// ErrEmptyCompletion is returned when the provider answers with no choices
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// Chat roles accepted from clients. Client system turns follow the built-in one.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn
type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// CompletionRequest is a provider-neutral chat completion call
type CompletionRequest struct {
	Operation   string // metric/log label: "scorecard", "chat"
	Messages    []Message
	Temperature float32
	MaxTokens   int  // 0 = provider default
	JSON        bool // ask for a JSON object response
}

// Completer produces the assistant text for a request
// ⭐ SSOT: LLM 호출 계약
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
