package slurm

import (
	"testing"

	"github.com/sourceplane/slurmflow/internal/model"
	"github.com/stretchr/testify/require"
)

func TestJobManifest_BatchBody(t *testing.T) {
	job := &Job{
		Header:    "#SBATCH -N 1",
		Workdir:   "wf/run-1/workdir",
		MapTmpDir: true,
	}
	tmpl := &model.Template{Name: "calc", Command: []string{"bash"}, Script: "echo hi"}

	manifest, err := job.Manifest(tmpl)
	require.NoError(t, err)

	require.Contains(t, manifest, "apiVersion: wlm.sylabs.io/v1alpha1")
	require.Contains(t, manifest, "kind: SlurmJob")
	require.Contains(t, manifest, "name: '{{pod.name}}'")
	require.Contains(t, manifest, "#SBATCH -N 1")
	require.Contains(t, manifest, "mkdir -p wf/run-1/workdir")
	require.Contains(t, manifest, "cd wf/run-1/workdir")
	require.Contains(t, manifest, `cat <<EOF | sed "s#/tmp#$(pwd)/tmp#g" | bash`)
	require.Contains(t, manifest, "echo hi")
}

func TestJobManifest_MapTmpDirDisabled(t *testing.T) {
	job := &Job{Workdir: "."}
	tmpl := &model.Template{Name: "calc", Command: []string{"bash"}, Script: "echo hi"}

	manifest, err := job.Manifest(tmpl)
	require.NoError(t, err)
	require.NotContains(t, manifest, "sed")
	require.Contains(t, manifest, "cat <<EOF | bash")
}

func TestJobManifest_RemoteCommandOverride(t *testing.T) {
	job := &Job{Workdir: ".", RemoteCommand: []string{"srun", "python3"}}
	tmpl := &model.Template{Name: "calc", Command: []string{"bash"}, Script: "print(1)"}

	manifest, err := job.Manifest(tmpl)
	require.NoError(t, err)
	require.Contains(t, manifest, "| srun python3")
}

func TestJobManifest_NoCommand(t *testing.T) {
	job := &Job{Workdir: "."}
	tmpl := &model.Template{Name: "calc", Script: "echo hi"}

	_, err := job.Manifest(tmpl)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no remote command")
}

func TestJobManifest_OptionalStanzas(t *testing.T) {
	tmpl := &model.Template{Name: "calc", Command: []string{"bash"}, Script: "echo hi"}

	bare, err := (&Job{Workdir: "."}).Manifest(tmpl)
	require.NoError(t, err)
	require.NotContains(t, bare, "nodeSelector")
	require.NotContains(t, bare, "prepare:")
	require.NotContains(t, bare, "results:")

	full := &Job{
		Workdir:      ".",
		NodeSelector: map[string]string{"zone": "a"},
		Prepare: &Staging{
			To: "wf/run-1",
			Mount: model.Volume{
				Name:     "workdir",
				HostPath: &model.HostPathSource{Path: "/tmp/{{pod.name}}", Type: "DirectoryOrCreate"},
			},
		},
		Results: &Staging{
			From: "wf/run-1/workdir",
			Mount: model.Volume{
				Name:     "mnt",
				HostPath: &model.HostPathSource{Path: "/tmp/{{pod.name}}", Type: "DirectoryOrCreate"},
			},
		},
	}
	manifest, err := full.Manifest(tmpl)
	require.NoError(t, err)
	require.Contains(t, manifest, "nodeSelector:")
	require.Contains(t, manifest, "zone: a")
	require.Contains(t, manifest, "prepare:")
	require.Contains(t, manifest, "to: wf/run-1")
	require.Contains(t, manifest, "results:")
	require.Contains(t, manifest, "from: wf/run-1/workdir")
	require.Contains(t, manifest, "hostPath:")
	require.Contains(t, manifest, "type: DirectoryOrCreate")
}
