package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"mytodos/internal/models"
	"mytodos/internal/theme"
)

// TemplateFuncs returns the functions available to the view templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"taskItem": func(task models.Task, palette theme.Palette) TaskItemData {
			return TaskItemData{Task: task, Palette: palette}
		},
	}
}

// ParseTemplates parses page templates at the root of fsys and partials under
// partials/. Templates are named by their base file name.
func ParseTemplates(fsys fs.FS) (*template.Template, error) {
	tmpl := template.New("").Funcs(TemplateFuncs())

	// Parse all templates
	patterns := []string{
		"*.html",
		"partials/*.html",
	}

	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			content, err := fs.ReadFile(fsys, match)
			if err != nil {
				return nil, fmt.Errorf("failed to read template %s: %w", match, err)
			}

			name := path.Base(match)
			_, err = tmpl.New(name).Parse(string(content))
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
	}

	return tmpl, nil
}
