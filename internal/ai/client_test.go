package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lecondujour/internal/model"
)

// stubGenerator returns a canned response and records the request.
type stubGenerator struct {
	response string
	err      error
	lastReq  TextRequest
}

func (s *stubGenerator) GenerateText(_ context.Context, req TextRequest) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func (s *stubGenerator) ModelID(Tier) string { return "stub" }

func lessonJSON(t *testing.T) string {
	t.Helper()
	items := make([]model.QuizItem, 10)
	for i := range items {
		items[i] = model.QuizItem{
			Question:      fmt.Sprintf("Question %d ?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
			Concept:       fmt.Sprintf("concept %d", i%3),
		}
	}
	payload := map[string]any{
		"sujet":             "Les fractions",
		"lecon_markdown":    "## Les fractions\nUne fraction partage un tout.",
		"quiz_10_questions": items,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal lesson payload: %v", err)
	}
	return string(b)
}

func remediationJSON(t *testing.T) string {
	t.Helper()
	items := make([]model.QuizItem, 5)
	for i := range items {
		items[i] = model.QuizItem{
			Question:      fmt.Sprintf("Encore une question %d ?", i+1),
			Options:       []string{"Oui", "Non"},
			CorrectAnswer: "Oui",
		}
	}
	payload := map[string]any{
		"remediation_markdown": "Reprenons calmement.",
		"quiz_5_questions":     items,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal remediation payload: %v", err)
	}
	return string(b)
}

func TestGenerateLessonAndQuiz(t *testing.T) {
	// Noise around the JSON block must not break parsing.
	gen := &stubGenerator{response: "Voici la leçon :\n" + lessonJSON(t) + "\nBon courage !"}
	c := NewClient(gen, 0)

	pkg, err := c.GenerateLessonAndQuiz(context.Background(), "CM1", "Mathématiques")
	if err != nil {
		t.Fatalf("GenerateLessonAndQuiz: %v", err)
	}
	if pkg.Topic != "Les fractions" {
		t.Errorf("topic = %q, want %q", pkg.Topic, "Les fractions")
	}
	if pkg.LessonText == "" {
		t.Error("lesson text is empty")
	}
	if len(pkg.Quiz) != 10 {
		t.Fatalf("quiz has %d items, want 10", len(pkg.Quiz))
	}
	if pkg.Quiz[0].Concept == "" {
		t.Error("lesson quiz item has no concept")
	}
	if !gen.lastReq.JSON {
		t.Error("lesson request did not ask for JSON output")
	}
	if gen.lastReq.Tier != TierFast {
		t.Errorf("lesson request tier = %v, want TierFast", gen.lastReq.Tier)
	}
}

func TestGenerateLessonAndQuizErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no JSON at all", "désolé, je ne peux pas"},
		{"invalid JSON", "{broken"},
		{"missing field", `{"sujet": "x", "quiz_10_questions": []}`},
		{"wrong quiz length", `{"sujet": "x", "lecon_markdown": "y", "quiz_10_questions": [{"question": "q", "options": ["a", "b"], "correct_answer": "a", "concept": "c"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&stubGenerator{response: tt.response}, 0)
			_, err := c.GenerateLessonAndQuiz(context.Background(), "CM1", "Français")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("error is %T, want *GenerationError", err)
			}
			if genErr.Raw != tt.response {
				t.Errorf("Raw = %q, want the full model response", genErr.Raw)
			}
		})
	}
}

func TestGenerateLessonAndQuizRejectsAnswerNotInOptions(t *testing.T) {
	items := make([]map[string]any, 10)
	for i := range items {
		items[i] = map[string]any{
			"question":       "q",
			"options":        []string{"A", "B"},
			"correct_answer": "A",
			"concept":        "c",
		}
	}
	items[4]["correct_answer"] = "Z"
	b, _ := json.Marshal(map[string]any{
		"sujet": "x", "lecon_markdown": "y", "quiz_10_questions": items,
	})

	c := NewClient(&stubGenerator{response: string(b)}, 0)
	_, err := c.GenerateLessonAndQuiz(context.Background(), "CM1", "Sciences")
	if err == nil {
		t.Fatal("expected error for correct_answer outside options")
	}
	if !strings.Contains(err.Error(), "question 5") {
		t.Errorf("error %q does not name the offending question", err)
	}
}

func TestGenerateLessonAndQuizProviderError(t *testing.T) {
	c := NewClient(&stubGenerator{err: errors.New("boom")}, 0)
	_, err := c.GenerateLessonAndQuiz(context.Background(), "CM1", "Histoire")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error is %T, want *GenerationError", err)
	}
	if genErr.Op != "lesson" {
		t.Errorf("Op = %q, want lesson", genErr.Op)
	}
}

func TestGenerateRemediationAndQuiz(t *testing.T) {
	gen := &stubGenerator{response: remediationJSON(t)}
	c := NewClient(gen, 0)

	pkg, err := c.GenerateRemediationAndQuiz(context.Background(), "CM1", []string{"les fractions", "le dénominateur"})
	if err != nil {
		t.Fatalf("GenerateRemediationAndQuiz: %v", err)
	}
	if pkg.RemediationText == "" {
		t.Error("remediation text is empty")
	}
	if len(pkg.Quiz) != 5 {
		t.Fatalf("quiz has %d items, want 5", len(pkg.Quiz))
	}
	if gen.lastReq.Tier != TierQuality {
		t.Errorf("remediation request tier = %v, want TierQuality", gen.lastReq.Tier)
	}
}

func TestGenerateAppreciation(t *testing.T) {
	t.Run("success trims whitespace", func(t *testing.T) {
		gen := &stubGenerator{response: "  Bravo, belle progression !\n"}
		c := NewClient(gen, 0)
		got := c.GenerateAppreciation(context.Background(), 8, 10, "Les fractions", false)
		if got != "Bravo, belle progression !" {
			t.Errorf("appreciation = %q", got)
		}
		if gen.lastReq.JSON {
			t.Error("appreciation request asked for JSON output")
		}
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		c := NewClient(&stubGenerator{err: errors.New("quota exceeded")}, 0)
		got := c.GenerateAppreciation(context.Background(), 2, 5, "Les volcans", true)
		if got != FallbackAppreciation {
			t.Errorf("appreciation = %q, want fallback", got)
		}
	})

	t.Run("blank response falls back", func(t *testing.T) {
		c := NewClient(&stubGenerator{response: "   \n"}, 0)
		got := c.GenerateAppreciation(context.Background(), 2, 5, "Les volcans", true)
		if got != FallbackAppreciation {
			t.Errorf("appreciation = %q, want fallback", got)
		}
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a": 1}`, `{"a": 1}`, true},
		{"text before {\"a\": 1} text after", `{"a": 1}`, true},
		{`{"a": {"b": 2}}`, `{"a": {"b": 2}}`, true},
		{"no braces here", "", false},
		{"} reversed {", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := extractJSON(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("extractJSON(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPrompts(t *testing.T) {
	lesson := buildLessonPrompt("CE2", "Sciences")
	if !strings.Contains(lesson, "CE2") || !strings.Contains(lesson, "Sciences") {
		t.Error("lesson prompt does not carry grade and subject")
	}
	if !strings.Contains(lesson, "quiz_10_questions") {
		t.Error("lesson prompt does not document the output format")
	}

	rem := buildRemediationPrompt("CM2", []string{"les fractions", "la soustraction"})
	if !strings.Contains(rem, "les fractions, la soustraction") {
		t.Error("remediation prompt does not list the failed concepts")
	}

	app := buildAppreciationPrompt(3, 5, "Les volcans", true)
	if !strings.Contains(app, "3/5") || !strings.Contains(app, "Les volcans") {
		t.Error("appreciation prompt does not carry score and topic")
	}
	if !strings.Contains(app, "remédiation") {
		t.Error("appreciation prompt does not mention the remediation context")
	}
	if strings.Contains(buildAppreciationPrompt(9, 10, "Les volcans", false), "remédiation") {
		t.Error("non-remediated appreciation prompt mentions remediation")
	}
}
