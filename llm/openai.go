package llm

import (
	"context"
	"fmt"

	"lifebridge-backend/reason"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultLocalModel = "llama3.1"

// localClient talks to any OpenAI-compatible endpoint (Ollama, vLLM,
// LM Studio). Same contract as the hosted provider with a smaller
// context budget.
type localClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func newLocalClient(opts Options, logger *zap.Logger) *localClient {
	cfg := openai.DefaultConfig(opts.LocalAPIKey)
	if opts.LocalBaseURL != "" {
		cfg.BaseURL = opts.LocalBaseURL
	}

	model := opts.LocalModel
	if model == "" {
		model = defaultLocalModel
	}

	return &localClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

func (c *localClient) GeneratePlan(ctx context.Context, scenario, story string, chunks []string) (*reason.PlanPayload, error) {
	prompt := buildPlanPrompt(scenario, story, chunks, localContextChunks, localContextChars)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: planSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("local generate plan: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return decodePlanPayload(resp.Choices[0].Message.Content)
}

func (c *localClient) Chat(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt,
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		c.logger.Warn("local_chat_failed", zap.Error(err))
		return "", fmt.Errorf("local chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
