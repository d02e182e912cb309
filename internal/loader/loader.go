package loader

import (
	"fmt"
	"os"

	"github.com/sourceplane/slurmflow/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadTemplate loads and validates a template descriptor YAML file.
func LoadTemplate(path string) (*model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var tmpl model.Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template YAML: %w", err)
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	return &tmpl, nil
}
