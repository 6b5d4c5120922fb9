package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mytodos/internal/models"
	"mytodos/internal/theme"
)

// TaskStore is the task list state owner the handlers drive.
type TaskStore interface {
	Snapshot() models.TaskList
	IsReady() bool
	Create(title string) (models.Task, bool)
	ToggleCompleted(id int64) (models.Task, bool)
	Delete(id int64) bool
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	tasks      TaskStore
	appearance *theme.Appearance
	preference theme.Preference
	templates  *template.Template
	logger     *slog.Logger
}

// New creates a new Handlers instance.
func New(tasks TaskStore, appearance *theme.Appearance, pref theme.Preference, tmpl *template.Template, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		tasks:      tasks,
		appearance: appearance,
		preference: pref,
		templates:  tmpl,
		logger:     logger,
	}
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func (h *Handlers) respondServerError(w http.ResponseWriter, err error) {
	h.logger.Error("internal server error", slog.String("error", err.Error()))
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handlers) respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write json response", slog.String("error", err.Error()))
	}
}

// requireReady answers 503 while the startup load is still running.
func (h *Handlers) requireReady(w http.ResponseWriter) bool {
	if h.tasks.IsReady() {
		return true
	}
	w.Header().Set("Retry-After", "1")
	respondError(w, http.StatusServiceUnavailable, "task list is loading")
	return false
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.respondServerError(w, err)
	}
}

// renderTemplate renders a full page template.
func (h *Handlers) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.render(w, name, data)
}

// renderPartial renders a partial template (for htmx responses).
func (h *Handlers) renderPartial(w http.ResponseWriter, name string, data interface{}) {
	h.render(w, name, data)
}

// scheme returns the colour scheme the screen should use right now.
func (h *Handlers) scheme() theme.Scheme {
	return theme.Resolve(h.preference, h.appearance.Get())
}
