package main

import (
	"fmt"

	"github.com/sourceplane/slurmflow/internal/loader"
	"github.com/spf13/cobra"
)

var (
	scriptTemplateFile string
	scriptConfigFile   string
	scriptSubmitOnly   bool
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the generated SSH submission script",
	Long:  "Print the shell script an ssh-mode executor generates for a template, for inspection before scheduling.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printScript()
	},
}

func registerScriptCommand(root *cobra.Command) {
	root.AddCommand(scriptCmd)

	scriptCmd.Flags().StringVarP(&scriptTemplateFile, "template", "t", "template.yaml", "Template descriptor file")
	scriptCmd.Flags().StringVarP(&scriptConfigFile, "config", "c", "executor.yaml", "Executor config file (ssh mode)")
	scriptCmd.Flags().BoolVar(&scriptSubmitOnly, "submit-only", false, "Print only the submission fragment, not the whole step script")
}

func printScript() error {
	tmpl, err := loader.LoadTemplate(scriptTemplateFile)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	cfg, err := loader.LoadConfig(scriptConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	exec, err := cfg.RemoteExecutor()
	if err != nil {
		return err
	}

	if scriptSubmitOnly {
		fmt.Print(exec.BuildSubmitScript(exec.Image, exec.RemoteCommandFor(tmpl)))
		return nil
	}

	rendered, err := exec.Render(tmpl)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	fmt.Print(rendered.Script)
	return nil
}
