package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator implements TextGenerator against any OpenAI-compatible
// endpoint (including local servers such as Ollama via a base URL). Both
// tiers map to the single configured model.
type OpenAIGenerator struct {
	api   *openai.Client
	model string
}

// NewOpenAIGenerator creates an OpenAI-compatible generator.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("API key is required (set --llm-key or LECONDUJOUR_LLM_KEY)")
	}

	config := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		config.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAIGenerator{
		api:   openai.NewClientWithConfig(config),
		model: cfg.OpenAIModel,
	}, nil
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: 0.7,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) ModelID(Tier) string {
	return g.model
}
