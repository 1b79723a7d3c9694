// Package llm provides the generative-text providers behind case plan
// generation and the assistant chat. Providers implement a common client
// contract so the reasoning layer can stay provider-agnostic; selection
// happens once at construction time from configuration.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"lifebridge-backend/reason"

	"go.uber.org/zap"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the capability contract shared by all providers.
type Client interface {
	reason.PlanSource

	// Chat answers a free-form question. Implementations may try an
	// ordered chain of models; the error only surfaces when every
	// candidate failed.
	Chat(ctx context.Context, message string, history []Message) (string, error)
}

// Provider identifiers.
const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

var (
	ErrNoCredentials   = errors.New("llm: api key not configured")
	ErrEmptyResponse   = errors.New("llm: provider returned empty content")
	ErrAllModelsFailed = errors.New("llm: all chat models failed")
)

// ChatUnavailableMessage is returned to end users when the whole chat
// model chain is exhausted. A degraded answer, never an error.
const ChatUnavailableMessage = "I apologize, but I'm unable to connect to the AI service right now. Please try again later."

// Options selects and configures a provider.
type Options struct {
	Provider string

	// Gemini
	GeminiAPIKey string
	PlanModel    string
	ChatModels   []string

	// OpenAI-compatible local deployment
	LocalBaseURL string
	LocalAPIKey  string
	LocalModel   string
}

// NewClient constructs the configured provider.
func NewClient(ctx context.Context, opts Options, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Provider {
	case ProviderGemini, "":
		return newGeminiClient(ctx, opts, logger)
	case ProviderLocal:
		return newLocalClient(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}

// NewClientFromEnv builds a client from environment variables. A missing
// API key is not an error here: the client signals failure per call and
// the reasoning layer falls back to the rule engine.
func NewClientFromEnv(ctx context.Context, logger *zap.Logger) (Client, error) {
	opts := Options{
		Provider:     strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		PlanModel:    os.Getenv("GEMINI_PLAN_MODEL"),
		LocalBaseURL: os.Getenv("LOCAL_LLM_BASE_URL"),
		LocalAPIKey:  os.Getenv("LOCAL_LLM_API_KEY"),
		LocalModel:   os.Getenv("LOCAL_LLM_MODEL"),
	}
	if models := os.Getenv("GEMINI_CHAT_MODELS"); models != "" {
		for _, m := range strings.Split(models, ",") {
			if m = strings.TrimSpace(m); m != "" {
				opts.ChatModels = append(opts.ChatModels, m)
			}
		}
	}
	return NewClient(ctx, opts, logger)
}
