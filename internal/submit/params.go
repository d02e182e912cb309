package submit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params is the submission parameter file handed to the remote submission
// tool: flat key/value lines describing where to record the job id, what to
// submit, how often to poll and how to connect.
type Params struct {
	JobIDFile  string `yaml:"jobIdFile"`
	Workdir    string `yaml:"workdir"`
	ScriptFile string `yaml:"scriptFile"`
	Interval   int    `yaml:"interval"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password,omitempty"`
}

// LoadParams reads and validates a parameter file.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read param file: %w", err)
	}

	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse param file: %w", err)
	}

	if p.JobIDFile == "" {
		return nil, fmt.Errorf("param file %s: jobIdFile is required", path)
	}
	if p.Workdir == "" {
		return nil, fmt.Errorf("param file %s: workdir is required", path)
	}
	if p.ScriptFile == "" {
		return nil, fmt.Errorf("param file %s: scriptFile is required", path)
	}
	if p.Host == "" {
		return nil, fmt.Errorf("param file %s: host is required", path)
	}
	if p.Port <= 0 {
		p.Port = 22
	}
	if p.Interval <= 0 {
		p.Interval = 3
	}

	return &p, nil
}
