package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_UniqueNames(t *testing.T) {
	tmpl := &Template{Name: "calc"}
	tmpl.Inputs.Parameters = []Parameter{{Name: "a"}, {Name: "b"}}
	tmpl.Inputs.Artifacts = []Artifact{{Name: "a", Path: "/in/a"}}
	require.NoError(t, tmpl.Validate())

	tmpl.Outputs.Artifacts = []Artifact{{Name: "out", Path: "/out"}, {Name: "out", Path: "/out2"}}
	err := tmpl.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate output artifact name: out")
}

func TestValidate_RequiresName(t *testing.T) {
	require.Error(t, (&Template{}).Validate())
}

func TestDeepCopy_Independent(t *testing.T) {
	tmpl := &Template{
		Name:    "calc",
		Command: []string{"bash"},
		Volumes: []Volume{{Name: "v", HostPath: &HostPathSource{Path: "/tmp/x"}}},
	}
	tmpl.Inputs.Parameters = []Parameter{{Name: "a"}}

	cp := tmpl.DeepCopy()
	cp.Inputs.Parameters[0].Name = "changed"
	cp.Command[0] = "sh"

	require.Equal(t, "a", tmpl.Inputs.Parameters[0].Name)
	require.Equal(t, "bash", tmpl.Command[0])
}

func TestReferences(t *testing.T) {
	require.Equal(t, "{{inputs.parameters.x}}", InputParameterRef("x").String())
	require.Equal(t, "{{inputs.artifacts.data}}", InputArtifactRef("data").String())
	require.Equal(t, "{{steps.slurm-run.outputs.parameters.sfl_vol_path}}",
		StepOutputParameterRef("slurm-run", VolPathParameter).String())
	require.Equal(t, "{{steps.slurm-collect.outputs.artifacts.out}}",
		StepOutputArtifactRef("slurm-collect", "out").String())
	require.Equal(t, "{{pod.name}}", PodName.String())
}

func TestStepsLookup(t *testing.T) {
	s := NewSteps("pipeline")
	s.Add(Step{Name: "first", Template: &Template{Name: "first-t"}})
	s.Add(Step{Name: "second", Template: &Template{Name: "second-t"}})

	require.Equal(t, "pipeline", s.TemplateName())
	require.Equal(t, "first-t", s.Step("first").Template.Name)
	require.Nil(t, s.Step("missing"))
}
