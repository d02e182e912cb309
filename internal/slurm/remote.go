package slurm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sourceplane/slurmflow/internal/executor"
	"github.com/sourceplane/slurmflow/internal/model"
)

// DefaultInterval is the poll interval, in seconds, the submission tool uses
// to query job status.
const DefaultInterval = 3

var headerIndent = regexp.MustCompile(` *#`)

// RemoteExecutor drives the Slurm cluster directly over SSH instead of
// delegating to the in-cluster controller: the generated step script uploads
// the work script, writes a submission parameter file and invokes the remote
// submission tool, which submits the batch job and polls it to completion.
type RemoteExecutor struct {
	executor.Remote
	Header   string
	Interval int
	PVC      *model.PVC
}

// NewRemoteExecutor validates the connection configuration and normalizes the
// header so it can be written as an indented string literal.
func NewRemoteExecutor(remote executor.Remote, header string, interval int, pvc *model.PVC) (*RemoteExecutor, error) {
	if err := remote.Validate(); err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RemoteExecutor{
		Remote:   remote,
		Header:   headerIndent.ReplaceAllString(header, "#"),
		Interval: interval,
		PVC:      pvc,
	}, nil
}

// BuildSubmitScript generates the shell fragment that writes the batch
// script, ships it to the remote working directory, emits the submission
// parameter file and invokes the submission tool. Upload and submission
// failures abort the step; the password line is emitted only when a password
// is configured.
func (e *RemoteExecutor) BuildSubmitScript(image string, remoteCommand []string) string {
	s := executor.NewScript()

	if e.DockerExecutable == "" {
		mapCmd := ""
		if e.MapTmpDir {
			mapCmd = `sed -i "s#/tmp#$(pwd)/tmp#g" script`
		}
		s.Addf("echo '%s\n%s\n%s script' > slurm.sh",
			e.Header, mapCmd, strings.Join(remoteCommand, " "))
	} else {
		s.Addf("echo '%s\n%s run -v$(pwd)/tmp:/tmp -v$(pwd)/script:/script -ti %s %s /script' > slurm.sh",
			e.Header, e.DockerExecutable, image, strings.Join(remoteCommand, " "))
	}

	s.AddFatal(e.UploadCommand("slurm.sh", e.Workdir+"/slurm.sh"))

	if e.PVC != nil {
		// The shared volume survives pod restarts, so the job id does too.
		s.Add("echo 'jobIdFile: /mnt/job_id.txt' >> param.yaml")
	} else {
		s.Add("echo 'jobIdFile: /tmp/job_id.txt' >> param.yaml")
	}
	s.Addf("echo 'workdir: %s' >> param.yaml", e.Workdir)
	s.Add("echo 'scriptFile: slurm.sh' >> param.yaml")
	s.Addf("echo 'interval: %d' >> param.yaml", e.Interval)
	s.Addf("echo 'host: %s' >> param.yaml", e.Host)
	s.Addf("echo 'port: %d' >> param.yaml", e.Port)
	s.Addf("echo 'username: %s' >> param.yaml", e.Username)
	if e.Password != "" {
		s.Addf("echo 'password: %s' >> param.yaml", e.Password)
	}
	s.AddFatal("./bin/slurm param.yaml")

	return s.String()
}

// Render rewrites the template so its pod runs the executor image and the
// generated submission script. When a shared persistent volume is configured
// it is mounted at /mnt, sub-path keyed by pod name, so the submission tool's
// job-id file routes status across pod retries.
func (e *RemoteExecutor) Render(t *model.Template) (*model.Template, error) {
	out, err := e.RenderScript(t, e.BuildSubmitScript)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", t.Name, err)
	}
	if e.PVC != nil {
		out.PVCs = append(out.PVCs, *e.PVC)
		out.Mounts = append(out.Mounts, model.VolumeMount{
			Name:      e.PVC.Name,
			MountPath: "/mnt",
			SubPath:   model.PodName.String(),
		})
	}
	return out, nil
}
