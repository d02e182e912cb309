package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScript_FailFastPolicy(t *testing.T) {
	s := NewScript()
	s.Add("mkdir -p tmp")
	s.AddFatal("scp script host:script")
	s.Addf("echo 'interval: %d' >> param.yaml", 3)
	s.AddFatalf("./bin/%s param.yaml", "slurm")

	want := "mkdir -p tmp\n" +
		"scp script host:script || exit 1\n" +
		"echo 'interval: 3' >> param.yaml\n" +
		"./bin/slurm param.yaml || exit 1\n"
	require.Equal(t, want, s.String())
}

func TestRemote_UploadCommand(t *testing.T) {
	r := NewRemote("cluster")
	r.Password = "secret"

	cmd := r.UploadCommand("slurm.sh", "~/wf/slurm.sh")
	require.Equal(t,
		"./bin/upload -host cluster -port 22 -username root -retries -1 -password 'secret' slurm.sh ~/wf/slurm.sh",
		cmd)

	r.Password = ""
	r.PrivateKeyFile = "/root/.ssh/id_rsa"
	r.ActionRetries = 5
	cmd = r.UploadCommand("a", "b")
	require.Equal(t,
		"./bin/upload -host cluster -port 22 -username root -retries 5 -key /root/.ssh/id_rsa a b",
		cmd)
}

func TestRemote_Validate(t *testing.T) {
	require.NoError(t, NewRemote("cluster").Validate())

	r := NewRemote("")
	require.Error(t, r.Validate())
}
