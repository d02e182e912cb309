package main

import (
	"fmt"

	"github.com/sourceplane/slurmflow/internal/loader"
	"github.com/spf13/cobra"
)

var (
	validateTemplateFile string
	validateConfigFile   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a template and executor config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateFiles()
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateTemplateFile, "template", "t", "template.yaml", "Template descriptor file")
	validateCmd.Flags().StringVarP(&validateConfigFile, "config", "c", "executor.yaml", "Executor config file")
}

func validateFiles() error {
	fmt.Println("□ Validating template...")
	tmpl, err := loader.LoadTemplate(validateTemplateFile)
	if err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}
	fmt.Printf("✓ Template %s is valid\n", tmpl.Name)

	fmt.Println("□ Validating executor config...")
	cfg, err := loader.LoadConfig(validateConfigFile)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := cfg.Executor(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	fmt.Printf("✓ Config is valid (%s mode)\n", cfg.Mode)

	return nil
}
