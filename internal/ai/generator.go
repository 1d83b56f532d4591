package ai

import (
	"context"
	"fmt"
)

// Tier selects the model quality for a request. The lesson is generated on
// the fast tier; remediation and appreciation use the quality tier.
type Tier int

const (
	TierFast Tier = iota
	TierQuality
)

// TextRequest is a single "text from prompt" call to the model provider.
type TextRequest struct {
	Prompt string
	Tier   Tier
	// JSON asks the provider for its structured-output mode when it has
	// one. The response is still passed through brace-span extraction, so
	// providers without a JSON mode keep working.
	JSON bool
}

// TextGenerator is the provider boundary: one free-form instruction in,
// free-form text out. The model identifiers behind each tier are
// configuration, not contract.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	ModelID(t Tier) string
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "gemini" or "openai"

	GeminiAPIKey       string
	GeminiFastModel    string
	GeminiQualityModel string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
}

// NewGenerator creates the configured provider. A missing credential is a
// startup-fatal configuration error.
func NewGenerator(ctx context.Context, cfg Config) (TextGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiGenerator(ctx, cfg)
	case "openai":
		return NewOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider %q (want gemini or openai)", cfg.Provider)
	}
}
