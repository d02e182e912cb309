package executor

import (
	"fmt"
	"strings"

	"github.com/sourceplane/slurmflow/internal/model"
)

// Defaults for remote executors.
const (
	DefaultPort     = 22
	DefaultUsername = "root"
	DefaultImage    = "sourceplane/slurmflow-extender"
	DefaultWorkdir  = "~/slurmflow/workflows/{{workflow.name}}/{{pod.name}}"
)

// Remote holds the connection and staging configuration shared by executors
// that drive a remote cluster over SSH. ActionRetries bounds the retries of
// the upload primitive; -1 retries until success.
type Remote struct {
	Host             string
	Port             int
	Username         string
	Password         string
	PrivateKeyFile   string
	Workdir          string
	Command          []string
	RemoteCommand    []string
	Image            string
	MapTmpDir        bool
	DockerExecutable string
	ActionRetries    int
}

// NewRemote creates a remote executor configuration with defaults applied.
func NewRemote(host string) *Remote {
	return &Remote{
		Host:          host,
		Port:          DefaultPort,
		Username:      DefaultUsername,
		Workdir:       DefaultWorkdir,
		Command:       []string{"sh"},
		Image:         DefaultImage,
		MapTmpDir:     true,
		ActionRetries: -1,
	}
}

// Validate reports configuration errors at construction time rather than when
// the generated script eventually fails on the cluster.
func (e *Remote) Validate() error {
	if e.Host == "" {
		return fmt.Errorf("remote executor: host is required")
	}
	if e.Port <= 0 {
		return fmt.Errorf("remote executor: invalid port %d", e.Port)
	}
	if e.Username == "" {
		return fmt.Errorf("remote executor: username is required")
	}
	if e.Workdir == "" {
		return fmt.Errorf("remote executor: workdir is required")
	}
	return nil
}

// RemoteCommandFor returns the configured remote command, falling back to the
// template's own command.
func (e *Remote) RemoteCommandFor(t *model.Template) []string {
	if len(e.RemoteCommand) > 0 {
		return e.RemoteCommand
	}
	return t.Command
}

// UploadCommand renders the invocation of the upload primitive for one file
// or directory. The primitive owns its retry and backoff policy, bounded by
// ActionRetries; this layer only decides that an exhausted upload is fatal.
func (e *Remote) UploadCommand(src, dst string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "./bin/upload -host %s -port %d -username %s -retries %d",
		e.Host, e.Port, e.Username, e.ActionRetries)
	if e.Password != "" {
		fmt.Fprintf(&b, " -password '%s'", e.Password)
	}
	if e.PrivateKeyFile != "" {
		fmt.Fprintf(&b, " -key %s", e.PrivateKeyFile)
	}
	fmt.Fprintf(&b, " %s %s", src, dst)
	return b.String()
}

// RenderScript builds the executor-side template: it materializes the work
// script and a tmp directory, ships both to the remote working directory, and
// appends the strategy's submission script. The strategy callback receives
// the executor image and the effective remote command.
func (e *Remote) RenderScript(t *model.Template, submit func(image string, remoteCommand []string) string) (*model.Template, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	remoteCommand := e.RemoteCommandFor(t)
	if len(remoteCommand) == 0 {
		return nil, fmt.Errorf("template %s: no remote command configured or declared", t.Name)
	}

	out := t.DeepCopy()
	out.Image = e.Image
	out.Command = append([]string(nil), e.Command...)

	s := NewScript()
	s.Add("mkdir -p tmp")
	s.Add("cat <<'EOF' > script\n" + t.Script + "\nEOF")
	s.AddFatal(e.UploadCommand("script", e.Workdir+"/script"))
	s.AddFatal(e.UploadCommand("tmp", e.Workdir+"/tmp"))
	s.Add(strings.TrimRight(submit(e.Image, remoteCommand), "\n"))
	out.Script = s.String()

	return out, nil
}
