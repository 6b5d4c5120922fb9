// Package seed provides the task list used when nothing has been saved yet.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mytodos/internal/models"
)

//go:embed todos.yaml
var defaultYAML []byte

// Default returns the built-in seed dataset.
func Default() (models.TaskList, error) {
	list, err := parseYAML(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in seed data: %w", err)
	}
	return list, nil
}

// Load reads a seed dataset from path. YAML and JSON files are accepted.
// An empty path returns the built-in dataset.
func Load(path string) (models.TaskList, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		list, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
		}
		return list, nil
	case ".json":
		list, err := models.DecodeTaskList(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

func parseYAML(data []byte) (models.TaskList, error) {
	var list models.TaskList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Title = strings.TrimSpace(list[i].Title)
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}
