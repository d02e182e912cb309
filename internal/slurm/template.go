package slurm

import (
	"fmt"
	"path"
	"strings"

	"github.com/sourceplane/slurmflow/internal/model"
)

// Pipeline step names. Operators diagnose which stage broke by these.
const (
	StepPrepare = "slurm-prepare"
	StepRun     = "slurm-run"
	StepCollect = "slurm-collect"
)

// DefaultWorkdir is the remote working directory of rewritten pipelines.
const DefaultWorkdir = "slurmflow/workflows/{{workflow.name}}/{{pod.name}}"

const stagingImage = "alpine:latest"

// JobTemplate rewrites a single-step template into a prepare/run/collect
// pipeline whose run phase delegates to the in-cluster SlurmJob controller.
//
// Staging uses a host-path volume keyed by the pod name, so data survives
// across steps scheduled on the same node only. Cross-node scheduling of the
// prepare, run and collect pods is a known gap: required node affinity is not
// enforced here because volume provisioning belongs to the controller.
type JobTemplate struct {
	Header        string
	NodeSelector  map[string]string
	PrepareImage  string
	CollectImage  string
	Workdir       string
	RemoteCommand []string
	MapTmpDir     bool
}

// NewJobTemplate creates a rewriter with defaults applied.
func NewJobTemplate() *JobTemplate {
	return &JobTemplate{
		PrepareImage: stagingImage,
		CollectImage: stagingImage,
		Workdir:      DefaultWorkdir,
		MapTmpDir:    true,
	}
}

// Render rewrites the template into a composite pipeline. Every declared
// input is still consumed (staged first when it is an artifact) and every
// declared output is re-exposed under the same name at the composite level.
// The prepare phase exists iff the template has input artifacts; the collect
// phase exists iff it has outputs.
func (jt *JobTemplate) Render(t *model.Template) (*model.Steps, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	pipeline := model.NewSteps(t.Name + "-slurm")
	for _, art := range t.Inputs.Artifacts {
		pipeline.Inputs.Artifacts = append(pipeline.Inputs.Artifacts, model.Artifact{Name: art.Name})
	}
	for _, par := range t.Inputs.Parameters {
		pipeline.Inputs.Parameters = append(pipeline.Inputs.Parameters, model.Parameter{Name: par.Name})
	}

	// Per-invocation staging directory on whichever node the pods land on.
	stagePath := "/tmp/" + model.PodName.String()

	var prepare, results *Staging

	if len(t.Inputs.Artifacts) > 0 {
		pipeline.Add(jt.prepareStep(t, pipeline.Name, stagePath))
		prepare = &Staging{
			To: jt.Workdir,
			Mount: model.Volume{
				Name: "workdir",
				HostPath: &model.HostPathSource{
					Path: model.InputParameterRef(model.VolPathParameter).String(),
					Type: "DirectoryOrCreate",
				},
			},
		}
	}

	if len(t.Outputs.Parameters) > 0 || len(t.Outputs.Artifacts) > 0 {
		results = &Staging{
			From: jt.Workdir + "/workdir",
			Mount: model.Volume{
				Name:     "mnt",
				HostPath: &model.HostPathSource{Path: stagePath, Type: "DirectoryOrCreate"},
			},
		}
	}

	runStep, err := jt.runStep(t, pipeline.Name, stagePath, prepare, results)
	if err != nil {
		return nil, err
	}
	pipeline.Add(runStep)

	if results != nil {
		pipeline.Add(jt.collectStep(t, pipeline.Name))

		for _, art := range t.Outputs.Artifacts {
			pipeline.Outputs.Artifacts = append(pipeline.Outputs.Artifacts, model.Artifact{
				Name: art.Name,
				From: model.StepOutputArtifactRef(StepCollect, art.Name).String(),
			})
		}
		for _, par := range t.Outputs.Parameters {
			pipeline.Outputs.Parameters = append(pipeline.Outputs.Parameters, model.Parameter{
				Name:               par.Name,
				ValueFromParameter: model.StepOutputParameterRef(StepCollect, par.Name).String(),
			})
		}
	}

	return pipeline, nil
}

// prepareStep stages every input artifact into the shared volume mounted at
// /workdir and exposes the concrete volume path as an output parameter.
func (jt *JobTemplate) prepareStep(t *model.Template, pipelineName, stagePath string) model.Step {
	var script strings.Builder
	for _, art := range t.Inputs.Artifacts {
		dir := path.Dir(art.Path)
		fmt.Fprintf(&script, "mkdir -p %s /workdir%s\n", dir, dir)
		fmt.Fprintf(&script, "cp -r %s /workdir%s\n", art.Path, art.Path)
	}

	tmpl := &model.Template{
		Name:    pipelineName + "-prepare",
		Image:   jt.PrepareImage,
		Command: []string{"sh"},
		Script:  script.String(),
		Volumes: []model.Volume{{
			Name:     "workdir",
			HostPath: &model.HostPathSource{Path: stagePath, Type: "DirectoryOrCreate"},
		}},
		Mounts: []model.VolumeMount{{Name: "workdir", MountPath: "/workdir"}},
	}
	tmpl.Inputs.Parameters = internalParameters(t)
	tmpl.Inputs.Artifacts = append([]model.Artifact(nil), t.Inputs.Artifacts...)
	tmpl.Outputs.Parameters = []model.Parameter{{Name: model.VolPathParameter, Value: stagePath}}

	var artifacts []model.Artifact
	for _, art := range t.Inputs.Artifacts {
		artifacts = append(artifacts, model.Artifact{
			Name: art.Name,
			From: model.InputArtifactRef(art.Name).String(),
		})
	}

	return model.Step{Name: StepPrepare, Template: tmpl, Artifacts: artifacts}
}

// runStep wraps the SlurmJob resource manifest into the remote-execution
// template and wires the staged volume path through from the prepare phase.
func (jt *JobTemplate) runStep(t *model.Template, pipelineName, stagePath string, prepare, results *Staging) (model.Step, error) {
	job := &Job{
		Header:        jt.Header,
		NodeSelector:  jt.NodeSelector,
		Prepare:       prepare,
		Results:       results,
		MapTmpDir:     jt.MapTmpDir,
		Workdir:       jt.Workdir + "/workdir",
		RemoteCommand: jt.RemoteCommand,
	}
	manifest, err := job.Manifest(t)
	if err != nil {
		return model.Step{}, err
	}

	tmpl := &model.Template{
		Name: pipelineName + "-run",
		Resource: &model.Resource{
			Action:           ActionCreate,
			SuccessCondition: SuccessCondition,
			FailureCondition: FailureCondition,
			Manifest:         manifest,
		},
	}
	tmpl.Inputs.Parameters = append([]model.Parameter(nil), t.Inputs.Parameters...)

	var parameters []model.Parameter
	for _, par := range t.Inputs.Parameters {
		parameters = append(parameters, model.Parameter{
			Name:  par.Name,
			Value: model.InputParameterRef(par.Name).String(),
		})
	}
	if prepare != nil {
		tmpl.Inputs.Parameters = append(tmpl.Inputs.Parameters, model.Parameter{Name: model.VolPathParameter})
		parameters = append(parameters, model.Parameter{
			Name:  model.VolPathParameter,
			Value: model.StepOutputParameterRef(StepPrepare, model.VolPathParameter).String(),
		})
	}
	if results != nil {
		// Re-exposed so the collect phase can mount the same directory.
		tmpl.Outputs.Parameters = []model.Parameter{{Name: model.VolPathParameter, Value: stagePath}}
	}

	return model.Step{Name: StepRun, Template: tmpl, Parameters: parameters}, nil
}

// collectStep copies every output artifact and every path-sourced output
// parameter out of the result volume mounted at /mnt, then re-declares the
// original outputs as its own.
func (jt *JobTemplate) collectStep(t *model.Template, pipelineName string) model.Step {
	var script strings.Builder
	for _, art := range t.Outputs.Artifacts {
		fmt.Fprintf(&script, "mkdir -p `dirname %s` && cp -r /mnt/workdir%s %s\n",
			art.Path, art.Path, art.Path)
	}
	for _, par := range t.Outputs.Parameters {
		if par.ValueFromPath != "" {
			fmt.Fprintf(&script, "mkdir -p `dirname %s` && cp -r /mnt/workdir%s %s\n",
				par.ValueFromPath, par.ValueFromPath, par.ValueFromPath)
		}
	}

	tmpl := &model.Template{
		Name:    pipelineName + "-collect",
		Image:   jt.CollectImage,
		Command: []string{"sh"},
		Script:  script.String(),
		Volumes: []model.Volume{{
			Name: "mnt",
			HostPath: &model.HostPathSource{
				Path: model.InputParameterRef(model.VolPathParameter).String(),
				Type: "DirectoryOrCreate",
			},
		}},
		Mounts: []model.VolumeMount{{Name: "mnt", MountPath: "/mnt"}},
	}
	tmpl.Inputs.Parameters = append(
		[]model.Parameter{{Name: model.VolPathParameter}}, internalParameters(t)...)
	tmpl.Outputs = t.Outputs.DeepCopy()

	return model.Step{
		Name:     StepCollect,
		Template: tmpl,
		Parameters: []model.Parameter{{
			Name:  model.VolPathParameter,
			Value: model.StepOutputParameterRef(StepRun, model.VolPathParameter).String(),
		}},
	}
}

// internalParameters re-declares the template's prefixed plumbing parameters
// so staging steps pass them through untouched.
func internalParameters(t *model.Template) []model.Parameter {
	var params []model.Parameter
	for _, par := range t.Inputs.Parameters {
		if strings.HasPrefix(par.Name, model.InternalPrefix) {
			params = append(params, model.Parameter{
				Name:  par.Name,
				Value: model.InputParameterRef(par.Name).String(),
			})
		}
	}
	return params
}
