package handler

import (
	"context"

	"lecondujour/internal/i18n"
	"lecondujour/internal/model"
	"lecondujour/internal/stats"
)

// Page is embedded in every view model; it exposes translations to the
// templates. Parameterized strings are precomputed by the handlers.
type Page struct {
	ctx  context.Context
	Lang string
}

func (h *Handler) page(ctx context.Context) Page {
	return Page{ctx: ctx, Lang: h.config.Lang}
}

// T translates a static label.
func (p Page) T(id string) string {
	return i18n.T(p.ctx, id)
}

// sessionHeader is the student/grade/subject banner above lesson screens.
type sessionHeader struct {
	Student string
	Grade   string
	Subject string
}

type homeData struct {
	Page
	Students  []string
	Grades    []string
	Name      string // sticky value on validation error
	FormError string
	Flash     string
}

type studentData struct {
	Page
	Name            string
	WelcomeText     string
	HasHistory      bool
	LessonCountText string
	AverageText     string
	FavoriteSubject string
	Subjects        []stats.SubjectStat
	Achievements    []string
	ReviewTopics    []string
}

type configData struct {
	Page
	Students        []string
	Grades          []string
	Subjects        []string
	SelectedStudent string
	SelectedGrade   string
	FormError       string
}

type lessonData struct {
	Page
	Header     sessionHeader
	Heading    string
	LessonText string
}

type quizData struct {
	Page
	Header    sessionHeader
	Action    string
	Items     []model.QuizItem
	FormError string
}

type evalData struct {
	Page
	Header  sessionHeader
	Heading string
	Message string
}

type genFailData struct {
	Page
	Header      sessionHeader
	Message     string
	Raw         string
	Action      string
	ActionLabel string
}

type remediationData struct {
	Page
	Header sessionHeader
	Text   string
}

type summaryData struct {
	Page
	Header       sessionHeader
	Quiz1Text    string
	Quiz2Text    string // empty when no remediation happened
	Appreciation string
}
