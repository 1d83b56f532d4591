package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lecondujour/internal/i18n"
	"lecondujour/internal/model"
	"lecondujour/internal/session"
)

// handleLessonPage renders whatever screen the session is on. Generation
// steps that the original flow runs on arrival (remediation content, the
// final appreciation and persistence) run here, guarded so a reload never
// repeats them.
func (h *Handler) handleLessonPage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.Lock()
	defer sess.Unlock()

	ctx := r.Context()
	header := sessionHeader{Student: sess.Student, Grade: sess.Grade, Subject: sess.Subject}

	switch sess.State() {
	case session.StateConfig:
		h.renderConfig(w, r, configData{})

	case session.StateGeneratingLesson:
		// Only reachable after a failed generation: the configure POST
		// generates synchronously and lands on display on success.
		h.renderGenFail(w, r, header, sess, "/lesson/back", i18n.T(ctx, "BackToConfig"))

	case session.StateDisplayLesson:
		h.render(w, "lesson", lessonData{
			Page:       h.page(ctx),
			Header:     header,
			Heading:    i18n.Td(ctx, "LessonHeading", map[string]any{"Topic": sess.Topic}),
			LessonText: sess.LessonText,
		})

	case session.StateQuiz1:
		h.renderQuiz(w, r, header, "/lesson/quiz1", sess.Quiz1, "")

	case session.StateEval1:
		res, err := sess.EvaluateFirstQuiz()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.renderEval(w, r, header, res)

	case session.StateRemediation:
		if err := sess.GenerateRemediation(ctx, h.ai); err != nil {
			h.renderGenFail(w, r, header, sess, "/lesson/skip", i18n.T(ctx, "ContinueToSummary"))
			return
		}
		h.render(w, "remediation", remediationData{
			Page:   h.page(ctx),
			Header: header,
			Text:   sess.RemediationText,
		})

	case session.StateQuiz2:
		h.renderQuiz(w, r, header, "/lesson/quiz2", sess.Quiz2, "")

	case session.StateEval2:
		res, err := sess.EvaluateSecondQuiz()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.renderEval(w, r, header, res)

	case session.StateSummary:
		rec, err := sess.Finalize(ctx, h.ai, h.store, time.Now())
		if err != nil {
			slog.Error("finalize session failed", "student", sess.Student, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data := summaryData{
			Page:         h.page(ctx),
			Header:       header,
			Quiz1Text:    fmt.Sprintf("%d/%d", rec.Quiz1Score, len(sess.Quiz1)),
			Appreciation: rec.Appreciation,
		}
		if rec.Quiz2Score != nil {
			data.Quiz2Text = fmt.Sprintf("%d/%d", *rec.Quiz2Score, len(sess.Quiz2))
		}
		h.render(w, "summary", data)

	default:
		http.Error(w, "unknown session state", http.StatusInternalServerError)
	}
}

// handleConfigure starts a lesson: it validates the form, then generates
// the lesson synchronously so the redirect lands on the lesson text.
func (h *Handler) handleConfigure(w http.ResponseWriter, r *http.Request) {
	student := r.FormValue("student")
	grade := r.FormValue("grade")
	subject := r.FormValue("subject")

	sess := h.sessionFor(w, r)
	sess.Lock()
	if sess.State() != session.StateConfig {
		sess.Unlock()
		sess = h.resetSession(r)
		sess.Lock()
	}
	defer sess.Unlock()

	if err := sess.Configure(student, grade, subject); err != nil {
		h.renderConfig(w, r, configData{
			SelectedStudent: student,
			SelectedGrade:   grade,
			FormError:       err.Error(),
		})
		return
	}

	if err := sess.GenerateLesson(r.Context(), h.ai); err != nil {
		slog.Error("lesson generation failed", "grade", grade, "subject", subject, "error", err)
	}
	http.Redirect(w, r, "/lesson", http.StatusSeeOther)
}

// handleReady moves from the lesson text to the first quiz.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *session.Session) error {
		return sess.BeginFirstQuiz()
	})
}

// handleFirstQuiz collects the first quiz answers. An incomplete
// submission re-renders the form with the answered items preserved
// by the browser.
func (h *Handler) handleFirstQuiz(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.Lock()
	defer sess.Unlock()

	answers := collectAnswers(r, len(sess.Quiz1))
	if err := sess.SubmitFirstQuiz(answers); err != nil {
		if errors.Is(err, session.ErrIncompleteQuiz) {
			header := sessionHeader{Student: sess.Student, Grade: sess.Grade, Subject: sess.Subject}
			h.renderQuiz(w, r, header, "/lesson/quiz1", sess.Quiz1, i18n.T(r.Context(), "ErrAnswerAll"))
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/lesson", http.StatusSeeOther)
}

// handleRemediationReady moves from the remediation text to the second quiz.
func (h *Handler) handleRemediationReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *session.Session) error {
		return sess.BeginSecondQuiz()
	})
}

// handleSecondQuiz collects the second quiz answers.
func (h *Handler) handleSecondQuiz(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.Lock()
	defer sess.Unlock()

	answers := collectAnswers(r, len(sess.Quiz2))
	if err := sess.SubmitSecondQuiz(answers); err != nil {
		if errors.Is(err, session.ErrIncompleteQuiz) {
			header := sessionHeader{Student: sess.Student, Grade: sess.Grade, Subject: sess.Subject}
			h.renderQuiz(w, r, header, "/lesson/quiz2", sess.Quiz2, i18n.T(r.Context(), "ErrAnswerAll"))
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/lesson", http.StatusSeeOther)
}

// handleSkipRemediation abandons a failed remediation and goes to the
// summary with the first-quiz result only.
func (h *Handler) handleSkipRemediation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *session.Session) error {
		return sess.SkipToSummary()
	})
}

// handleBackToConfig abandons a failed lesson generation; nothing was
// persisted, the session is simply replaced.
func (h *Handler) handleBackToConfig(w http.ResponseWriter, r *http.Request) {
	h.resetSession(r)
	http.Redirect(w, r, "/lesson", http.StatusSeeOther)
}

// handleRestart discards the session after the summary and returns to
// configuration for a new lesson.
func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	h.resetSession(r)
	http.Redirect(w, r, "/lesson", http.StatusSeeOther)
}

// transition runs one state transition under the session lock and
// redirects to the lesson page, mapping a wrong-state error to 409.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	sess := h.sessionFor(w, r)
	sess.Lock()
	err := fn(sess)
	sess.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/lesson", http.StatusSeeOther)
}

func (h *Handler) renderConfig(w http.ResponseWriter, r *http.Request, data configData) {
	students, err := h.store.ListStudents()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.Page = h.page(r.Context())
	data.Students = students
	data.Grades = model.GradeLevels
	data.Subjects = model.Subjects

	if data.SelectedStudent == "" {
		data.SelectedStudent = r.URL.Query().Get("student")
	}
	if data.SelectedGrade == "" && data.SelectedStudent != "" {
		if g, err := h.store.GetStudentGrade(data.SelectedStudent); err == nil && g != "" {
			data.SelectedGrade = g
		}
	}
	if data.SelectedGrade == "" {
		data.SelectedGrade = model.DefaultGrade
	}
	h.render(w, "config", data)
}

func (h *Handler) renderQuiz(w http.ResponseWriter, r *http.Request, header sessionHeader, action string, items []model.QuizItem, formError string) {
	h.render(w, "quiz", quizData{
		Page:      h.page(r.Context()),
		Header:    header,
		Action:    action,
		Items:     items,
		FormError: formError,
	})
}

func (h *Handler) renderEval(w http.ResponseWriter, r *http.Request, header sessionHeader, res session.EvalResult) {
	ctx := r.Context()
	msgID := "ResultFail"
	if res.Passed {
		msgID = "ResultPass"
	}
	h.render(w, "eval", evalData{
		Page:    h.page(ctx),
		Header:  header,
		Heading: i18n.Td(ctx, "ResultHeading", map[string]any{"Score": res.Score, "Total": res.Total}),
		Message: i18n.T(ctx, msgID),
	})
}

func (h *Handler) renderGenFail(w http.ResponseWriter, r *http.Request, header sessionHeader, sess *session.Session, action, actionLabel string) {
	ctx := r.Context()
	var raw string
	if sess.GenErr != nil {
		raw = sess.GenErr.Raw
	}
	h.render(w, "genfail", genFailData{
		Page:        h.page(ctx),
		Header:      header,
		Message:     i18n.T(ctx, "GenerationFailed"),
		Raw:         raw,
		Action:      action,
		ActionLabel: actionLabel,
	})
}

// collectAnswers reads q0..qN-1 radio values; a missing field yields an
// empty string, which the submit rejects.
func collectAnswers(r *http.Request, n int) []string {
	answers := make([]string, n)
	for i := range answers {
		answers[i] = r.FormValue(fmt.Sprintf("q%d", i))
	}
	return answers
}
