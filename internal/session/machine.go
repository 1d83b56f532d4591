package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lecondujour/internal/ai"
	"lecondujour/internal/model"
)

// ContentGenerator is the slice of the AI content client the machine uses.
type ContentGenerator interface {
	GenerateLessonAndQuiz(ctx context.Context, grade, subject string) (*model.LessonPackage, error)
	GenerateRemediationAndQuiz(ctx context.Context, grade string, concepts []string) (*model.RemediationPackage, error)
	GenerateAppreciation(ctx context.Context, score, total int, topic string, remediated bool) string
}

// ResultWriter persists the completed record.
type ResultWriter interface {
	SaveLessonResult(rec model.LessonResult) error
}

// EvalResult is the outcome of one quiz evaluation.
type EvalResult struct {
	Score  int
	Total  int
	Passed bool
}

// Configure records the student, grade and subject and moves to lesson
// generation. The "Surprise !" wildcard is passed through as an explicit
// subject value; the lesson prompt makes the model pick a concrete topic.
func (s *Session) Configure(student, grade, subject string) error {
	if err := s.require(StateConfig, "configure"); err != nil {
		return err
	}
	if student == "" {
		return fmt.Errorf("student is required")
	}
	if !model.IsValidGrade(grade) {
		return fmt.Errorf("unknown grade level %q", grade)
	}
	if !model.IsValidSubject(subject) {
		return fmt.Errorf("unknown subject %q", subject)
	}
	s.Student = student
	s.Grade = grade
	s.Subject = subject
	s.state = StateGeneratingLesson
	return nil
}

// GenerateLesson invokes the lesson operation. On success the lesson and
// shuffled quiz are populated and the session moves to the lesson display.
// On failure the session stays in the generating state with the failure
// recorded; the only way forward is the explicit return to configuration.
func (s *Session) GenerateLesson(ctx context.Context, gen ContentGenerator) error {
	if err := s.require(StateGeneratingLesson, "generate lesson"); err != nil {
		return err
	}
	pkg, err := gen.GenerateLessonAndQuiz(ctx, s.Grade, s.Subject)
	if err != nil {
		s.captureGenErr(err)
		return err
	}
	s.Topic = pkg.Topic
	s.LessonText = pkg.LessonText
	s.Quiz1 = pkg.Quiz
	shuffleOptions(s.Quiz1)
	s.GenErr = nil
	s.state = StateDisplayLesson
	return nil
}

// BeginFirstQuiz is the student's explicit "ready" action on the lesson.
func (s *Session) BeginFirstQuiz() error {
	if err := s.require(StateDisplayLesson, "begin quiz"); err != nil {
		return err
	}
	s.state = StateQuiz1
	return nil
}

// SubmitFirstQuiz stores the answers verbatim. A submission with any
// unanswered item is rejected with ErrIncompleteQuiz and the state stays
// on the quiz form.
func (s *Session) SubmitFirstQuiz(answers []string) error {
	if err := s.require(StateQuiz1, "submit quiz"); err != nil {
		return err
	}
	if !validAnswers(answers, len(s.Quiz1)) {
		return ErrIncompleteQuiz
	}
	s.Answers1 = answers
	s.state = StateEval1
	return nil
}

// EvaluateFirstQuiz scores the first quiz and branches: 7 of 10 or better
// goes straight to the summary, anything below enters remediation.
func (s *Session) EvaluateFirstQuiz() (EvalResult, error) {
	if err := s.require(StateEval1, "evaluate quiz"); err != nil {
		return EvalResult{}, err
	}
	s.Score1, s.FailedConcepts = scoreQuiz(s.Quiz1, s.Answers1)
	passed := s.Score1 >= PassThreshold1
	if passed {
		s.state = StateSummary
	} else {
		s.state = StateRemediation
	}
	return EvalResult{Score: s.Score1, Total: len(s.Quiz1), Passed: passed}, nil
}

// GenerateRemediation invokes the remediation operation with the failed
// concepts. It runs at most once: a second call after success is a no-op.
// On failure the session stays in remediation with the failure recorded;
// the explicit skip to summary is the only way forward.
func (s *Session) GenerateRemediation(ctx context.Context, gen ContentGenerator) error {
	if err := s.require(StateRemediation, "generate remediation"); err != nil {
		return err
	}
	if s.RemediationText != "" || s.remediationFailed {
		return nil
	}
	pkg, err := gen.GenerateRemediationAndQuiz(ctx, s.Grade, s.FailedConcepts)
	if err != nil {
		s.captureGenErr(err)
		s.remediationFailed = true
		return err
	}
	s.RemediationText = pkg.RemediationText
	s.Quiz2 = pkg.Quiz
	shuffleOptions(s.Quiz2)
	return nil
}

// BeginSecondQuiz is the student's explicit "ready" action on the
// remediation text.
func (s *Session) BeginSecondQuiz() error {
	if err := s.require(StateRemediation, "begin second quiz"); err != nil {
		return err
	}
	if s.RemediationText == "" {
		return fmt.Errorf("begin second quiz: no remediation content: %w", ErrWrongState)
	}
	s.state = StateQuiz2
	return nil
}

// SkipToSummary leaves a failed remediation behind; remediation is
// best-effort and never blocks the session.
func (s *Session) SkipToSummary() error {
	if err := s.require(StateRemediation, "skip to summary"); err != nil {
		return err
	}
	s.state = StateSummary
	return nil
}

// SubmitSecondQuiz stores the second quiz answers, same validation
// discipline as the first.
func (s *Session) SubmitSecondQuiz(answers []string) error {
	if err := s.require(StateQuiz2, "submit second quiz"); err != nil {
		return err
	}
	if !validAnswers(answers, len(s.Quiz2)) {
		return ErrIncompleteQuiz
	}
	s.Answers2 = answers
	s.state = StateEval2
	return nil
}

// EvaluateSecondQuiz scores the second quiz. Both outcomes move to the
// summary: remediation happens at most once per session. The 3-of-5
// threshold only decides whether review points are recorded later.
func (s *Session) EvaluateSecondQuiz() (EvalResult, error) {
	if err := s.require(StateEval2, "evaluate second quiz"); err != nil {
		return EvalResult{}, err
	}
	s.Score2, _ = scoreQuiz(s.Quiz2, s.Answers2)
	s.remediated = true
	s.state = StateSummary
	return EvalResult{Score: s.Score2, Total: len(s.Quiz2), Passed: s.Score2 >= PassThreshold2}, nil
}

// Finalize generates the appreciation, builds the completed record and
// appends it to the store. It runs at most once; later calls return the
// already persisted record. Nothing is written before this point, so a
// restart from any earlier state leaves no trace.
func (s *Session) Finalize(ctx context.Context, gen ContentGenerator, store ResultWriter, now time.Time) (*model.LessonResult, error) {
	if err := s.require(StateSummary, "finalize"); err != nil {
		return nil, err
	}
	if s.finalized {
		return s.Result, nil
	}

	var appreciation string
	rec := model.LessonResult{
		Student:     s.Student,
		CompletedAt: now,
		Grade:       s.Grade,
		Subject:     s.Subject,
		Topic:       s.Topic,
		Quiz1Score:  s.Score1,
	}

	if s.remediated {
		appreciation = gen.GenerateAppreciation(ctx, s.Score2, len(s.Quiz2), s.Topic, true)
		score2 := s.Score2
		rec.Quiz2Score = &score2
		if s.Score2 < PassThreshold2 {
			rec.ReviewPoints = strings.Join(s.FailedConcepts, ",")
		}
	} else {
		appreciation = gen.GenerateAppreciation(ctx, s.Score1, len(s.Quiz1), s.Topic, false)
	}
	rec.Appreciation = appreciation

	if err := store.SaveLessonResult(rec); err != nil {
		return nil, fmt.Errorf("save lesson result: %w", err)
	}
	s.finalized = true
	s.Result = &rec
	return s.Result, nil
}

func (s *Session) captureGenErr(err error) {
	var genErr *ai.GenerationError
	if errors.As(err, &genErr) {
		s.GenErr = genErr
	} else {
		s.GenErr = &ai.GenerationError{Err: err}
	}
}
