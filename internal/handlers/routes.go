package handlers

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions holds optional endpoints mounted next to the handlers.
type RouterOptions struct {
	// Static is served under /static/ when non-nil.
	Static fs.FS
	// Metrics is served at /metrics when non-nil.
	Metrics http.Handler
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// Router builds the HTTP router.
func (h *Handlers) Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Middleware
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	// Page routes
	r.Get("/", h.Home)

	// Task API routes
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Post("/api/tasks/{id}/toggle", h.ToggleTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)

	// Status and appearance
	r.Get("/api/ready", h.Ready)
	r.Get("/api/theme", h.GetTheme)
	r.Put("/api/theme", h.SetTheme)

	return r
}
