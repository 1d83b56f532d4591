package handler

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lecondujour/internal/ai"
	"lecondujour/internal/model"
	"lecondujour/internal/session"
	"lecondujour/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "ldj_session"

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	ai       *ai.Client
	sessions *session.Registry
	config   model.AppConfig
	tmpl     *template.Template
}

// New creates a new Handler with all page templates parsed.
func New(s *store.Store, client *ai.Client, cfg model.AppConfig) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{
		store:    s,
		ai:       client,
		sessions: session.NewRegistry(),
		config:   cfg,
		tmpl:     tmpl,
	}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Post("/students", h.handleAddStudent)
	r.Get("/student/{name}", h.handleStudent)

	r.Get("/lesson", h.handleLessonPage)
	r.Post("/lesson/config", h.handleConfigure)
	r.Post("/lesson/ready", h.handleReady)
	r.Post("/lesson/quiz1", h.handleFirstQuiz)
	r.Post("/lesson/remediation/ready", h.handleRemediationReady)
	r.Post("/lesson/quiz2", h.handleSecondQuiz)
	r.Post("/lesson/skip", h.handleSkipRemediation)
	r.Post("/lesson/back", h.handleBackToConfig)
	r.Post("/lesson/restart", h.handleRestart)
}

// sessionFor returns the browser's lesson session, creating the cookie and
// a fresh session on first contact.
func (h *Handler) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return h.sessions.Get(c.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return h.sessions.Get(id)
}

// resetSession replaces the browser's session with a fresh one.
func (h *Handler) resetSession(r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return h.sessions.Reset(c.Value)
	}
	return session.New()
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render error", "template", name, "error", err)
	}
}
