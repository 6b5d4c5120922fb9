package handlers

import (
	"net/http"

	"mytodos/internal/models"
	"mytodos/internal/theme"
)

// HomeData holds data for the home page template.
type HomeData struct {
	Title     string
	Ready     bool
	Tasks     models.TaskList
	Remaining int
	Scheme    theme.Scheme
	Palette   theme.Palette
}

// Home renders the single to-do screen. Until the startup load finishes it
// renders a loading state instead of the list.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	scheme := h.scheme()
	data := HomeData{
		Title:   "My To-Dos",
		Ready:   h.tasks.IsReady(),
		Scheme:  scheme,
		Palette: theme.PaletteFor(scheme),
	}

	if data.Ready {
		data.Tasks = h.tasks.Snapshot()
		data.Remaining = len(data.Tasks) - data.Tasks.CompletedCount()
	}

	h.renderTemplate(w, "home.html", data)
}

// Ready reports whether the startup load has completed.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]bool{"ready": h.tasks.IsReady()})
}
