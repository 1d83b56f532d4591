package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"lecondujour/internal/i18n"
	"lecondujour/internal/model"
	"lecondujour/internal/stats"
	"lecondujour/internal/store"
)

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := homeData{
		Page:     h.page(r.Context()),
		Students: students,
		Grades:   model.GradeLevels,
	}
	if r.URL.Query().Get("created") == "1" {
		data.Flash = i18n.T(r.Context(), "StudentCreated")
	}
	h.render(w, "home", data)
}

func (h *Handler) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	grade := r.FormValue("grade")

	renderError := func(msgID string) {
		students, err := h.store.ListStudents()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.render(w, "home", homeData{
			Page:      h.page(r.Context()),
			Students:  students,
			Grades:    model.GradeLevels,
			Name:      name,
			FormError: i18n.T(r.Context(), msgID),
		})
	}

	if name == "" {
		renderError("ErrNameRequired")
		return
	}
	if !model.IsValidGrade(grade) {
		http.Error(w, "invalid grade", http.StatusBadRequest)
		return
	}

	if err := h.store.AddStudent(name, grade); err != nil {
		if errors.Is(err, store.ErrDuplicateStudent) {
			renderError("ErrStudentExists")
			return
		}
		slog.Error("add student failed", "name", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/?created=1", http.StatusSeeOther)
}

func (h *Handler) handleStudent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	history, err := h.store.GetStudentHistory(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	data := studentData{
		Page:        h.page(ctx),
		Name:        name,
		WelcomeText: i18n.Td(ctx, "Welcome", map[string]any{"Name": name}),
		HasHistory:  len(history) > 0,
	}

	if data.HasHistory {
		overview := stats.Summarize(history)
		data.LessonCountText = i18n.Tp(ctx, "LessonCount", overview.Lessons)
		data.AverageText = fmt.Sprintf("%.1f/10", overview.AverageScore)
		data.FavoriteSubject = overview.FavoriteSubject
		data.Subjects = stats.BySubject(history)

		for _, rec := range stats.TopAchievements(history, 5) {
			data.Achievements = append(data.Achievements, i18n.Td(ctx, "AchievementLine", map[string]any{
				"Subject": rec.Subject,
				"Score":   rec.Quiz1Score,
				"Topic":   rec.Topic,
			}))
		}
		for _, rec := range stats.ReviewTopics(history, 5) {
			data.ReviewTopics = append(data.ReviewTopics, i18n.Td(ctx, "ReviewLine", map[string]any{
				"Subject": rec.Subject,
				"Points":  rec.ReviewPoints,
			}))
		}
	}

	h.render(w, "student", data)
}
