package submit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "param.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"jobIdFile: /tmp/job_id.txt\n"+
			"workdir: ~/wf/run-1\n"+
			"scriptFile: slurm.sh\n"+
			"interval: 3\n"+
			"host: slurm.example.com\n"+
			"port: 22\n"+
			"username: root\n"+
			"password: hunter2\n"), 0644))

	p, err := LoadParams(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/job_id.txt", p.JobIDFile)
	require.Equal(t, "~/wf/run-1", p.Workdir)
	require.Equal(t, "slurm.sh", p.ScriptFile)
	require.Equal(t, 3, p.Interval)
	require.Equal(t, "slurm.example.com", p.Host)
	require.Equal(t, "hunter2", p.Password)
}

func TestLoadParams_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "param.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"jobIdFile: /tmp/job_id.txt\n"+
			"workdir: ~/wf\n"+
			"scriptFile: slurm.sh\n"+
			"host: h\n"+
			"username: root\n"), 0644))

	p, err := LoadParams(path)
	require.NoError(t, err)
	require.Equal(t, 22, p.Port)
	require.Equal(t, 3, p.Interval)
	require.Empty(t, p.Password)
}

func TestLoadParams_MissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "param.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workdir: ~/wf\n"), 0644))

	_, err := LoadParams(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "jobIdFile is required")
}

func TestParseJobID(t *testing.T) {
	id, err := ParseJobID("Submitted batch job 4242\n")
	require.NoError(t, err)
	require.Equal(t, "4242", id)

	_, err = ParseJobID("sbatch: error: invalid partition\n")
	require.Error(t, err)
}

func TestTerminalState(t *testing.T) {
	cases := []struct {
		state    string
		done, ok bool
	}{
		{"COMPLETED", true, true},
		{" COMPLETED ", true, true},
		{"FAILED", true, false},
		{"CANCELLED by 0", true, false},
		{"TIMEOUT", true, false},
		{"NODE_FAIL", true, false},
		{"OUT_OF_MEMORY", true, false},
		{"RUNNING", false, false},
		{"PENDING", false, false},
		{"", false, false},
	}
	for _, c := range cases {
		done, ok := TerminalState(c.state)
		require.Equal(t, c.done, done, "state %q", c.state)
		require.Equal(t, c.ok, ok, "state %q", c.state)
	}
}
