package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourceplane/slurmflow/internal/submit"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <param-file>",
	Short: "Submit and wait on a remote Slurm job",
	Long:  "Run the remote submission tool: read a parameter file, submit the uploaded batch script with sbatch and poll it to completion. This is the entrypoint the generated step script invokes as ./bin/slurm.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitJob(args[0])
	},
}

func registerSubmitCommand(root *cobra.Command) {
	root.AddCommand(submitCmd)
}

func submitJob(paramFile string) error {
	params, err := submit.LoadParams(paramFile)
	if err != nil {
		return err
	}

	submitter, err := submit.New(params, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := submitter.Run(ctx); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	return nil
}
