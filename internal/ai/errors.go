package ai

import "fmt"

// GenerationError reports a failed content generation: a remote call error,
// no JSON block in the model output, or a payload that does not match the
// expected shape. Raw holds the model's raw text so the UI can show it for
// diagnosis. Generation failures are never retried automatically.
type GenerationError struct {
	Op  string // "lesson" or "remediation"
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
