package submit

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sourceplane/slurmflow/internal/sshclient"
)

var jobIDPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// ParseJobID extracts the job id from sbatch output.
func ParseJobID(out string) (string, error) {
	m := jobIDPattern.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("sbatch output has no job id: %q", strings.TrimSpace(out))
	}
	return m[1], nil
}

// TerminalState classifies a sacct job state. done is false while the job is
// still queued or running; ok reports whether a finished job succeeded.
// Compound states like "CANCELLED by 0" classify by their first token.
func TerminalState(state string) (done, ok bool) {
	fields := strings.Fields(strings.TrimSpace(state))
	if len(fields) == 0 {
		return false, false
	}
	switch strings.TrimSuffix(fields[0], "+") {
	case "COMPLETED":
		return true, true
	case "FAILED", "CANCELLED", "TIMEOUT", "NODE_FAIL", "BOOT_FAIL", "OUT_OF_MEMORY", "DEADLINE", "PREEMPTED":
		return true, false
	default:
		return false, false
	}
}

// Submitter is the remote submission tool the generated step script invokes
// as "./bin/slurm param.yaml": it submits the uploaded batch script with
// sbatch, records the job id, and polls sacct until a terminal state.
type Submitter struct {
	client *sshclient.Client
	params *Params
	out    io.Writer
}

func New(params *Params, out io.Writer) (*Submitter, error) {
	client, err := sshclient.New(sshclient.Config{
		Host:     params.Host,
		Port:     params.Port,
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		return nil, err
	}
	return &Submitter{client: client, params: params, out: out}, nil
}

// Run drives one job to completion. A pre-existing job-id file means a
// previous pod attempt already submitted; polling resumes on that id instead
// of submitting twice.
func (s *Submitter) Run(ctx context.Context) error {
	jobID, err := s.loadJobID()
	if err != nil {
		return err
	}

	if jobID == "" {
		jobID, err = s.submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "submitted batch job %s\n", jobID)
	} else {
		fmt.Fprintf(s.out, "resuming batch job %s\n", jobID)
	}

	return s.wait(ctx, jobID)
}

func (s *Submitter) loadJobID() (string, error) {
	data, err := os.ReadFile(s.params.JobIDFile)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read job id file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Submitter) submit(ctx context.Context) (string, error) {
	cmd := fmt.Sprintf("cd %s && sbatch %s", s.params.Workdir, s.params.ScriptFile)
	out, err := s.client.Run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("sbatch failed: %s: %w", strings.TrimSpace(out), err)
	}
	jobID, err := ParseJobID(out)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(s.params.JobIDFile, []byte(jobID+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write job id file: %w", err)
	}
	return jobID, nil
}

func (s *Submitter) wait(ctx context.Context, jobID string) error {
	interval := time.Duration(s.params.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, err := s.jobState(ctx, jobID)
		if err != nil {
			return err
		}
		done, ok := TerminalState(state)
		if done {
			if !ok {
				return fmt.Errorf("job %s finished with state %s", jobID, state)
			}
			fmt.Fprintf(s.out, "job %s completed\n", jobID)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Submitter) jobState(ctx context.Context, jobID string) (string, error) {
	out, err := s.client.Run(ctx, fmt.Sprintf("sacct -j %s -X -n -o State", jobID))
	if err != nil {
		return "", fmt.Errorf("failed to query job %s: %w", jobID, err)
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	// sacct can lag right after submission; report not-yet-terminal.
	return "", nil
}
