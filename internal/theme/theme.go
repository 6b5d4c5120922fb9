// Package theme holds the light/dark appearance state consumed by the view layer.
package theme

import (
	"fmt"
	"strings"
	"sync"
)

// Scheme is a colour scheme.
type Scheme string

const (
	Light Scheme = "light"
	Dark  Scheme = "dark"
)

// ParseScheme parses "light" or "dark", ignoring case and surrounding space.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("invalid color scheme %q: must be 'light' or 'dark'", s)
	}
}

// Palette is the set of colours used to draw the screen.
type Palette struct {
	Text       string
	Background string
	Icon       string
	Button     string
	ButtonText string
}

var palettes = map[Scheme]Palette{
	Light: {
		Text:       "black",
		Background: "white",
		Icon:       "black",
		Button:     "#3b82f6",
		ButtonText: "white",
	},
	Dark: {
		Text:       "white",
		Background: "black",
		Icon:       "red",
		Button:     "#eff6ff",
		ButtonText: "black",
	},
}

// PaletteFor returns the palette for scheme. Unknown schemes get the light palette.
func PaletteFor(scheme Scheme) Palette {
	if p, ok := palettes[scheme]; ok {
		return p
	}
	return palettes[Light]
}

// Preference is the user's theme choice.
type Preference string

const (
	PreferSystem Preference = "system"
	PreferLight  Preference = "light"
	PreferDark   Preference = "dark"
)

// Resolve returns the scheme to use for pref given the current system scheme.
func Resolve(pref Preference, system Scheme) Scheme {
	switch pref {
	case PreferLight:
		return Light
	case PreferDark:
		return Dark
	default:
		if system == "" {
			return Light
		}
		return system
	}
}

// Appearance is an observable colour scheme. Listeners are called whenever
// the scheme changes; the zero value is not usable, call NewAppearance.
type Appearance struct {
	mu        sync.RWMutex
	scheme    Scheme
	listeners map[int]func(Scheme)
	nextID    int
}

// NewAppearance creates an Appearance starting at initial.
func NewAppearance(initial Scheme) *Appearance {
	if initial == "" {
		initial = Light
	}
	return &Appearance{
		scheme:    initial,
		listeners: make(map[int]func(Scheme)),
	}
}

// Get returns the current scheme.
func (a *Appearance) Get() Scheme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.scheme
}

// Palette returns the palette for the current scheme.
func (a *Appearance) Palette() Palette {
	return PaletteFor(a.Get())
}

// Set changes the scheme and notifies listeners if it differs from the current one.
func (a *Appearance) Set(scheme Scheme) {
	a.mu.Lock()
	if a.scheme == scheme {
		a.mu.Unlock()
		return
	}
	a.scheme = scheme
	listeners := make([]func(Scheme), 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(scheme)
	}
}

// Subscribe registers fn to be called on every change. The returned function
// removes it and is safe to call more than once.
func (a *Appearance) Subscribe(fn func(Scheme)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}
