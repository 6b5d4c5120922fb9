package handlers

import (
	"net/http"

	"mytodos/internal/theme"
)

type themeResponse struct {
	Scheme     theme.Scheme     `json:"scheme"`
	System     theme.Scheme     `json:"system"`
	Preference theme.Preference `json:"preference"`
	Palette    theme.Palette    `json:"palette"`
}

// GetTheme returns the colour scheme in effect.
func (h *Handlers) GetTheme(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.themeState())
}

// SetTheme sets the system appearance from the "scheme" form value. Browsers
// report prefers-color-scheme changes here.
func (h *Handlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	scheme, err := theme.ParseScheme(r.FormValue("scheme"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.appearance.Set(scheme)
	h.respondJSON(w, http.StatusOK, h.themeState())
}

func (h *Handlers) themeState() themeResponse {
	scheme := h.scheme()
	return themeResponse{
		Scheme:     scheme,
		System:     h.appearance.Get(),
		Preference: h.preference,
		Palette:    theme.PaletteFor(scheme),
	}
}

func (h *Handlers) palette() theme.Palette {
	return theme.PaletteFor(h.scheme())
}
