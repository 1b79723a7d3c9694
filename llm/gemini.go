package llm

import (
	"context"
	"fmt"

	"lifebridge-backend/reason"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultPlanModel = "gemini-2.0-flash"

// defaultChatModels is the free-tier resilience chain: candidates are
// tried strictly in order and the first successful response wins.
var defaultChatModels = []string{
	"gemini-2.0-flash",
	"gemini-flash-latest",
	"gemini-pro-latest",
}

type geminiClient struct {
	client     *genai.Client
	apiKey     string
	planModel  string
	chatModels []string
	logger     *zap.Logger
}

func newGeminiClient(ctx context.Context, opts Options, logger *zap.Logger) (*geminiClient, error) {
	if opts.GeminiAPIKey == "" {
		logger.Warn("gemini_api_key_not_set_plan_generation_will_fall_back")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	planModel := opts.PlanModel
	if planModel == "" {
		planModel = defaultPlanModel
	}
	chatModels := opts.ChatModels
	if len(chatModels) == 0 {
		chatModels = defaultChatModels
	}

	return &geminiClient{
		client:     client,
		apiKey:     opts.GeminiAPIKey,
		planModel:  planModel,
		chatModels: chatModels,
		logger:     logger,
	}, nil
}

// GeneratePlan issues one structured-JSON request. Any failure (missing
// credentials, transport, malformed payload) is returned as an error for
// the reasoning layer to convert into a rule-engine fallback.
func (c *geminiClient) GeneratePlan(ctx context.Context, scenario, story string, chunks []string) (*reason.PlanPayload, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredentials
	}

	prompt := planSystemPrompt + "\n\n" +
		buildPlanPrompt(scenario, story, chunks, geminiContextChunks, geminiContextChars)

	model := c.client.GenerativeModel(c.planModel)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate plan: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	return decodePlanPayload(text)
}

// Chat walks the model chain in order and returns the first success.
func (c *geminiClient) Chat(ctx context.Context, message string, history []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredentials
	}

	for _, name := range c.chatModels {
		model := c.client.GenerativeModel(name)
		session := model.StartChat()
		session.History = toGeminiHistory(history)

		resp, err := session.SendMessage(ctx, genai.Text(chatSystemPrompt+"\n\nUser: "+message))
		if err != nil {
			c.logger.Warn("chat_model_failed", zap.String("model", name), zap.Error(err))
			continue
		}
		if text := collectText(resp); text != "" {
			return text, nil
		}
		c.logger.Warn("chat_model_returned_empty", zap.String("model", name))
	}

	return "", ErrAllModelsFailed
}

func toGeminiHistory(history []Message) []*genai.Content {
	if len(history) == 0 {
		return nil
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	return out
}
