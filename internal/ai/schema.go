package ai

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// quizItemDef builds the schema for one quiz item. The lesson quiz requires
// a concept tag on every item; the remediation quiz does not carry one.
func quizItemDef(withConcept bool) map[string]any {
	required := []any{"question", "options", "correct_answer"}
	properties := map[string]any{
		"question": map[string]any{"type": "string", "minLength": 1},
		"options": map[string]any{
			"type":     "array",
			"minItems": 2,
			"maxItems": 4,
			"items":    map[string]any{"type": "string"},
		},
		"correct_answer": map[string]any{"type": "string"},
		"concept":        map[string]any{"type": "string"},
	}
	if withConcept {
		required = append(required, "concept")
	}
	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
}

// lessonDef is the schema of the lesson generation payload.
var lessonDef = map[string]any{
	"type":     "object",
	"required": []any{"sujet", "lecon_markdown", "quiz_10_questions"},
	"properties": map[string]any{
		"sujet":          map[string]any{"type": "string", "minLength": 1},
		"lecon_markdown": map[string]any{"type": "string", "minLength": 1},
		"quiz_10_questions": map[string]any{
			"type":     "array",
			"minItems": 10,
			"maxItems": 10,
			"items":    quizItemDef(true),
		},
	},
}

// remediationDef is the schema of the remediation generation payload.
var remediationDef = map[string]any{
	"type":     "object",
	"required": []any{"remediation_markdown", "quiz_5_questions"},
	"properties": map[string]any{
		"remediation_markdown": map[string]any{"type": "string", "minLength": 1},
		"quiz_5_questions": map[string]any{
			"type":     "array",
			"minItems": 5,
			"maxItems": 5,
			"items":    quizItemDef(false),
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateDocument checks raw JSON against the named schema definition.
// Malformed model output fails here, before any field reaches the session.
func validateDocument(name string, def map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
