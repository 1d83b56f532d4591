// Package session implements the lesson session state machine: an explicit
// finite-state controller that sequences the screens of one lesson, from
// configuration through quizzes and optional remediation to the persisted
// summary. One Session belongs to one browser and is never shared.
package session

import (
	"errors"
	"fmt"
	"sync"

	"lecondujour/internal/ai"
	"lecondujour/internal/model"
)

// State is the session's current screen.
type State string

const (
	StateConfig           State = "config"
	StateGeneratingLesson State = "generating_lesson"
	StateDisplayLesson    State = "display_lesson"
	StateQuiz1            State = "quiz_1"
	StateEval1            State = "eval_1"
	StateRemediation      State = "remediation"
	StateQuiz2            State = "quiz_2"
	StateEval2            State = "eval_2"
	StateSummary          State = "summary"
)

// PassThreshold1 is the first-quiz pass gate: score >= 7 of 10 skips
// remediation. PassThreshold2 only decides whether review points are
// recorded; it never gates a transition.
const (
	PassThreshold1 = 7
	PassThreshold2 = 3
)

var (
	// ErrWrongState is returned by every transition invoked outside its
	// source state.
	ErrWrongState = errors.New("operation not allowed in current state")

	// ErrIncompleteQuiz rejects a quiz submission with unanswered items.
	// The state does not change; the same form is re-presented.
	ErrIncompleteQuiz = errors.New("all questions must be answered")
)

// Session carries every field of one student interaction. Fields of a
// stage are populated only after that stage's generation step succeeded;
// the state tag always matches which fields are populated. A restart
// discards the whole value and constructs a fresh one.
type Session struct {
	mu sync.Mutex

	state State

	Student string
	Grade   string
	Subject string

	Topic      string
	LessonText string
	Quiz1      []model.QuizItem
	Answers1   []string
	Score1     int

	FailedConcepts  []string
	RemediationText string
	Quiz2           []model.QuizItem
	Answers2        []string
	Score2          int

	remediated        bool
	remediationFailed bool

	// GenErr holds the last generation failure for diagnostic display.
	GenErr *ai.GenerationError

	finalized bool
	Result    *model.LessonResult
}

// New constructs a fresh session in the configuration state.
func New() *Session {
	return &Session{state: StateConfig}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Remediated reports whether a remediation cycle completed (second quiz
// evaluated).
func (s *Session) Remediated() bool {
	return s.remediated
}

// RemediationFailed reports whether remediation generation failed; the
// only way forward is then the explicit skip to summary.
func (s *Session) RemediationFailed() bool {
	return s.remediationFailed
}

// Finalized reports whether the completed record has been persisted.
func (s *Session) Finalized() bool {
	return s.finalized
}

// Lock serializes interactions on this session; one user action is
// processed start-to-finish before the next is accepted.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) require(st State, op string) error {
	if s.state != st {
		return fmt.Errorf("%s in state %q: %w", op, s.state, ErrWrongState)
	}
	return nil
}
