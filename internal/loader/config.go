package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sourceplane/slurmflow/internal/executor"
	"github.com/sourceplane/slurmflow/internal/model"
	"github.com/sourceplane/slurmflow/internal/slurm"
	"gopkg.in/yaml.v3"
)

// Executor modes.
const (
	ModeOperator = "operator"
	ModeSSH      = "ssh"
)

// Config is the executor configuration surface. Operator mode drives the
// in-cluster SlurmJob controller; ssh mode drives the cluster directly.
type Config struct {
	Mode             string            `yaml:"mode"`
	Header           string            `yaml:"header,omitempty"`
	NodeSelector     map[string]string `yaml:"nodeSelector,omitempty"`
	PrepareImage     string            `yaml:"prepareImage,omitempty"`
	CollectImage     string            `yaml:"collectImage,omitempty"`
	Workdir          string            `yaml:"workdir,omitempty"`
	Command          []string          `yaml:"command,omitempty"`
	RemoteCommand    []string          `yaml:"remoteCommand,omitempty"`
	Host             string            `yaml:"host,omitempty"`
	Port             int               `yaml:"port,omitempty"`
	Username         string            `yaml:"username,omitempty"`
	Password         string            `yaml:"password,omitempty"`
	PrivateKeyFile   string            `yaml:"privateKeyFile,omitempty"`
	Image            string            `yaml:"image,omitempty"`
	MapTmpDir        *bool             `yaml:"mapTmpDir,omitempty"`
	DockerExecutable string            `yaml:"dockerExecutable,omitempty"`
	ActionRetries    *int              `yaml:"actionRetries,omitempty"`
	Interval         int               `yaml:"interval,omitempty"`
	PVC              *model.PVC        `yaml:"pvc,omitempty"`
}

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["mode"],
  "properties": {
    "mode": {"type": "string", "enum": ["operator", "ssh"]},
    "header": {"type": "string"},
    "nodeSelector": {"type": "object", "additionalProperties": {"type": "string"}},
    "prepareImage": {"type": "string"},
    "collectImage": {"type": "string"},
    "workdir": {"type": "string"},
    "command": {"type": "array", "items": {"type": "string"}},
    "remoteCommand": {"type": "array", "items": {"type": "string"}},
    "host": {"type": "string"},
    "port": {"type": "integer", "minimum": 1, "maximum": 65535},
    "username": {"type": "string"},
    "password": {"type": "string"},
    "privateKeyFile": {"type": "string"},
    "image": {"type": "string"},
    "mapTmpDir": {"type": "boolean"},
    "dockerExecutable": {"type": "string"},
    "actionRetries": {"type": "integer", "minimum": -1},
    "interval": {"type": "integer", "minimum": 1},
    "pvc": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string"},
        "size": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// LoadConfig loads an executor config YAML file, validates it against the
// embedded JSON schema, then applies cross-field rules the schema cannot
// express (ssh mode needs connection details).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates and decodes raw config YAML.
func ParseConfig(data []byte) (*Config, error) {
	// Parse YAML to interface{}, round-trip through JSON for the schema
	// compiler (it validates json-decoded values only).
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config for validation: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config for validation: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.json", strings.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}
	schema, err := compiler.Compile("config.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config failed schema validation: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Mode == ModeSSH && cfg.Host == "" {
		return nil, fmt.Errorf("config: ssh mode requires a host")
	}
	if cfg.Mode == ModeSSH && cfg.Password == "" && cfg.PrivateKeyFile == "" {
		return nil, fmt.Errorf("config: ssh mode requires a password or a private key file")
	}

	return &cfg, nil
}

// JobTemplate builds the operator-mode rewriter from the config.
func (c *Config) JobTemplate() (*slurm.JobTemplate, error) {
	if c.Mode != ModeOperator {
		return nil, fmt.Errorf("config: mode %q is not %q", c.Mode, ModeOperator)
	}
	jt := slurm.NewJobTemplate()
	jt.Header = c.Header
	jt.NodeSelector = c.NodeSelector
	jt.RemoteCommand = c.RemoteCommand
	if c.PrepareImage != "" {
		jt.PrepareImage = c.PrepareImage
	}
	if c.CollectImage != "" {
		jt.CollectImage = c.CollectImage
	}
	if c.Workdir != "" {
		jt.Workdir = c.Workdir
	}
	if c.MapTmpDir != nil {
		jt.MapTmpDir = *c.MapTmpDir
	}
	return jt, nil
}

// RemoteExecutor builds the ssh-mode executor from the config.
func (c *Config) RemoteExecutor() (*slurm.RemoteExecutor, error) {
	if c.Mode != ModeSSH {
		return nil, fmt.Errorf("config: mode %q is not %q", c.Mode, ModeSSH)
	}
	remote := executor.NewRemote(c.Host)
	if c.Port > 0 {
		remote.Port = c.Port
	}
	if c.Username != "" {
		remote.Username = c.Username
	}
	remote.Password = c.Password
	remote.PrivateKeyFile = c.PrivateKeyFile
	if c.Workdir != "" {
		remote.Workdir = c.Workdir
	}
	if len(c.Command) > 0 {
		remote.Command = c.Command
	}
	remote.RemoteCommand = c.RemoteCommand
	if c.Image != "" {
		remote.Image = c.Image
	}
	if c.MapTmpDir != nil {
		remote.MapTmpDir = *c.MapTmpDir
	}
	remote.DockerExecutable = c.DockerExecutable
	if c.ActionRetries != nil {
		remote.ActionRetries = *c.ActionRetries
	}
	return slurm.NewRemoteExecutor(*remote, c.Header, c.Interval, c.PVC)
}

// Executor builds whichever executor the config's mode selects.
func (c *Config) Executor() (executor.Executor, error) {
	switch c.Mode {
	case ModeOperator:
		jt, err := c.JobTemplate()
		if err != nil {
			return nil, err
		}
		return executor.Func(func(t *model.Template) (model.AnyTemplate, error) {
			return jt.Render(t)
		}), nil
	case ModeSSH:
		re, err := c.RemoteExecutor()
		if err != nil {
			return nil, err
		}
		return executor.Func(func(t *model.Template) (model.AnyTemplate, error) {
			return re.Render(t)
		}), nil
	default:
		return nil, fmt.Errorf("config: unknown mode %q", c.Mode)
	}
}
