package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lecondujour/internal/model"
)

// FallbackAppreciation is returned when the appreciation call fails; the
// summary screen must never block on the model.
const FallbackAppreciation = "N'oublie pas de toujours faire de ton mieux !"

// Client implements the three content operations on top of a TextGenerator.
// Each operation is synchronous, runs under a bounded timeout, and either
// returns a fully validated result or a *GenerationError carrying the raw
// model text. No operation retries.
type Client struct {
	gen     TextGenerator
	timeout time.Duration
}

// NewClient creates a content client. timeout bounds every remote call.
func NewClient(gen TextGenerator, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{gen: gen, timeout: timeout}
}

type lessonPayload struct {
	Sujet string           `json:"sujet"`
	Lecon string           `json:"lecon_markdown"`
	Quiz  []model.QuizItem `json:"quiz_10_questions"`
}

type remediationPayload struct {
	Remediation string           `json:"remediation_markdown"`
	Quiz        []model.QuizItem `json:"quiz_5_questions"`
}

// GenerateLessonAndQuiz asks the model to pick a topic for the grade and
// subject, write a short lesson, and produce a 10-item concept-tagged quiz.
func (c *Client) GenerateLessonAndQuiz(ctx context.Context, grade, subject string) (*model.LessonPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildLessonPrompt(grade, subject)
	raw, err := c.gen.GenerateText(ctx, TextRequest{Prompt: prompt, Tier: TierFast, JSON: true})
	if err != nil {
		return nil, &GenerationError{Op: "lesson", Raw: raw, Err: err}
	}

	var payload lessonPayload
	if err := c.parse("lesson", lessonDef, raw, &payload); err != nil {
		return nil, err
	}
	if err := checkQuiz(payload.Quiz); err != nil {
		return nil, &GenerationError{Op: "lesson", Raw: raw, Err: err}
	}

	slog.Debug("lesson generated", "model", c.gen.ModelID(TierFast), "topic", payload.Sujet)
	return &model.LessonPackage{
		Topic:      payload.Sujet,
		LessonText: payload.Lecon,
		Quiz:       payload.Quiz,
	}, nil
}

// GenerateRemediationAndQuiz asks for a simpler explanation of the failed
// concepts and a 5-item targeted quiz.
func (c *Client) GenerateRemediationAndQuiz(ctx context.Context, grade string, concepts []string) (*model.RemediationPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildRemediationPrompt(grade, concepts)
	raw, err := c.gen.GenerateText(ctx, TextRequest{Prompt: prompt, Tier: TierQuality, JSON: true})
	if err != nil {
		return nil, &GenerationError{Op: "remediation", Raw: raw, Err: err}
	}

	var payload remediationPayload
	if err := c.parse("remediation", remediationDef, raw, &payload); err != nil {
		return nil, err
	}
	if err := checkQuiz(payload.Quiz); err != nil {
		return nil, &GenerationError{Op: "remediation", Raw: raw, Err: err}
	}

	return &model.RemediationPackage{
		RemediationText: payload.Remediation,
		Quiz:            payload.Quiz,
	}, nil
}

// GenerateAppreciation produces the closing comment for the given score.
// On any failure it logs and returns the fixed fallback text; the caller
// never sees an error.
func (c *Client) GenerateAppreciation(ctx context.Context, score, total int, topic string, remediated bool) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildAppreciationPrompt(score, total, topic, remediated)
	raw, err := c.gen.GenerateText(ctx, TextRequest{Prompt: prompt, Tier: TierQuality})
	if err != nil {
		slog.Warn("appreciation generation failed, using fallback", "error", err)
		return FallbackAppreciation
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return FallbackAppreciation
	}
	return text
}

// parse runs the extraction and validation pipeline: brace-span extraction,
// schema validation, then decode into out. Every failure becomes a
// *GenerationError carrying the raw text.
func (c *Client) parse(op string, def map[string]any, raw string, out any) error {
	doc, ok := extractJSON(raw)
	if !ok {
		return &GenerationError{Op: op, Raw: raw, Err: fmt.Errorf("no JSON block in model output")}
	}
	if err := validateDocument(op, def, []byte(doc)); err != nil {
		return &GenerationError{Op: op, Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return &GenerationError{Op: op, Raw: raw, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return nil
}

// checkQuiz enforces the one invariant the schema cannot express: every
// item's correct_answer equals one of its options by exact string value.
func checkQuiz(items []model.QuizItem) error {
	for i, item := range items {
		found := false
		for _, opt := range item.Options {
			if opt == item.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: correct_answer %q is not among the options", i+1, item.CorrectAnswer)
		}
	}
	return nil
}
