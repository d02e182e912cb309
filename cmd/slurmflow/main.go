package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slurmflow",
	Short: "Rewrite workflow templates for remote Slurm execution",
	Long:  "slurmflow rewrites single-step workflow templates into prepare/run/collect pipelines that execute on a remote Slurm cluster, via the in-cluster SlurmJob controller or directly over SSH.",
}

func init() {
	registerRenderCommand(rootCmd)
	registerScriptCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerSubmitCommand(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
