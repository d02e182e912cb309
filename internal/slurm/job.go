package slurm

import (
	"fmt"
	"strings"

	"github.com/sourceplane/slurmflow/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// APIVersion and Kind identify the custom resource the in-cluster
	// controller reconciles.
	APIVersion = "wlm.sylabs.io/v1alpha1"
	Kind       = "SlurmJob"

	// ActionCreate is the resource action the engine performs for the run step.
	ActionCreate = "create"

	// SuccessCondition and FailureCondition are the status predicates the
	// controller populates. They are a contract with the controller, not
	// configurable per job.
	SuccessCondition = "status.status == Succeeded"
	FailureCondition = "status.status == Failed"
)

// Staging tells the controller to move data between a mounted volume and the
// remote working directory, before (To) or after (From) the batch job runs.
type Staging struct {
	To    string       `yaml:"to,omitempty" json:"to,omitempty"`
	From  string       `yaml:"from,omitempty" json:"from,omitempty"`
	Mount model.Volume `yaml:"mount" json:"mount"`
}

// Job builds the declarative description of one remote batch job: header
// text, working directory, the embedded work script, optional data-staging
// stanzas and a node selector.
type Job struct {
	Header        string
	NodeSelector  map[string]string
	Prepare       *Staging
	Results       *Staging
	MapTmpDir     bool
	Workdir       string
	RemoteCommand []string
}

type jobManifest struct {
	APIVersion string      `yaml:"apiVersion"`
	Kind       string      `yaml:"kind"`
	Metadata   jobMetadata `yaml:"metadata"`
	Spec       jobSpec     `yaml:"spec"`
}

type jobMetadata struct {
	Name string `yaml:"name"`
}

type jobSpec struct {
	Batch        string            `yaml:"batch"`
	NodeSelector map[string]string `yaml:"nodeSelector,omitempty"`
	Prepare      *Staging          `yaml:"prepare,omitempty"`
	Results      *Staging          `yaml:"results,omitempty"`
}

// Manifest renders the SlurmJob resource for the given template. The batch
// script pipes a heredoc with the template's script into the remote command,
// optionally remapping /tmp prefixes to a relative tmp directory first. The
// remote command defaults to the template's own command and must be non-empty
// after defaulting. Header and script content are passed through verbatim.
func (j *Job) Manifest(t *model.Template) (string, error) {
	remoteCommand := j.RemoteCommand
	if len(remoteCommand) == 0 {
		remoteCommand = t.Command
	}
	if len(remoteCommand) == 0 {
		return "", fmt.Errorf("template %s: no remote command for batch script", t.Name)
	}

	filter := ""
	if j.MapTmpDir {
		filter = `sed "s#/tmp#$(pwd)/tmp#g" | `
	}
	batch := fmt.Sprintf("%s\nmkdir -p %s\ncd %s\ncat <<EOF | %s%s\n%s\nEOF",
		j.Header, j.Workdir, j.Workdir, filter, strings.Join(remoteCommand, " "), t.Script)

	m := jobManifest{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   jobMetadata{Name: model.PodName.String()},
		Spec: jobSpec{
			Batch:        batch,
			NodeSelector: j.NodeSelector,
			Prepare:      j.Prepare,
			Results:      j.Results,
		},
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal SlurmJob manifest: %w", err)
	}
	return string(data), nil
}
