package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator implements TextGenerator using the Google Gemini SDK.
type GeminiGenerator struct {
	client *genai.Client
	models [2]string // indexed by Tier
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set --gemini-key or LECONDUJOUR_GEMINI_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	fast := cfg.GeminiFastModel
	if fast == "" {
		fast = "gemini-2.0-flash"
	}
	quality := cfg.GeminiQualityModel
	if quality == "" {
		quality = "gemini-2.0-pro"
	}

	return &GeminiGenerator{
		client: client,
		models: [2]string{TierFast: fast, TierQuality: quality},
	}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	config := &genai.GenerateContentConfig{}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	result, err := g.client.Models.GenerateContent(ctx, g.ModelID(req.Tier), contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	return result.Text(), nil
}

func (g *GeminiGenerator) ModelID(t Tier) string {
	return g.models[t]
}
