package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceplane/slurmflow/internal/loader"
	"github.com/sourceplane/slurmflow/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	renderTemplateFile string
	renderConfigFile   string
	renderOutputFile   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Rewrite a template for remote Slurm execution",
	Long:  "Rewrite a single-step template into the composite pipeline (or SSH submission template) described by the executor config.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderTemplate()
	},
}

func registerRenderCommand(root *cobra.Command) {
	root.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "template.yaml", "Template descriptor file")
	renderCmd.Flags().StringVarP(&renderConfigFile, "config", "c", "executor.yaml", "Executor config file")
	renderCmd.Flags().StringVarP(&renderOutputFile, "output", "o", "pipeline.yaml", "Output file (json or yaml by extension)")
}

func renderTemplate() error {
	fmt.Println("□ Loading template...")
	tmpl, err := loader.LoadTemplate(renderTemplateFile)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	fmt.Println("□ Loading executor config...")
	cfg, err := loader.LoadConfig(renderConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	exec, err := cfg.Executor()
	if err != nil {
		return err
	}

	fmt.Println("□ Rendering...")
	rendered, err := exec.Render(tmpl)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	if err := writeRendered(rendered, renderOutputFile); err != nil {
		return err
	}

	fmt.Printf("✓ Rendered %s as %s\n", tmpl.Name, rendered.TemplateName())
	fmt.Printf("✓ Saved to: %s\n", renderOutputFile)
	return nil
}

func writeRendered(rendered model.AnyTemplate, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var data []byte
	var err error
	switch filepath.Ext(path) {
	case ".json":
		data, err = json.MarshalIndent(rendered, "", "  ")
	default:
		data, err = yaml.Marshal(rendered)
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output to %s: %w", path, err)
	}
	return nil
}
