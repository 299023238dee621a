package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adamancini/badlock/internal/config"
	"github.com/adamancini/badlock/internal/interactive"
	"github.com/adamancini/badlock/internal/templates"
)

func newInitCmd() *cobra.Command {
	var templateName string
	var outputPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a settings or modules file from a template",
		Long: `Create a starter file from a built-in template.

Available templates:
  config     - Settings file (badlock.yaml)
  modules    - Extra modules tracked on top of the built-in catalog (modules.yaml)

Files are written to $XDG_CONFIG_HOME/badlock unless --path is given.

Examples:
  badlock init                        # Pick a template from a menu
  badlock init --template=config
  badlock init --template=modules --path ./modules.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), newPrompter(), templateName, outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Template name")
	cmd.Flags().StringVar(&outputPath, "path", "", "Output path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	// Register completion for template flag
	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, name := range templates.List() {
			completions = append(completions, fmt.Sprintf("%s\t%s", name, templates.GetDescription(name)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runInit executes the init workflow.
func runInit(stdout io.Writer, prompter *interactive.Prompter, templateName, outputPath string, force bool) error {
	if templateName == "" {
		selected, err := selectTemplate(prompter)
		if err != nil {
			return err
		}
		templateName = selected
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	// Determine output path
	if outputPath == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		outputPath = filepath.Join(dir, tmpl.FileName)
	}
	outputPath = expandHomePath(outputPath)

	// Check if file exists
	if _, err := os.Stat(outputPath); err == nil && !force {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", outputPath), false)
		if errors.Is(err, interactive.ErrNotInteractive) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", outputPath)
		}
		if err != nil && !errors.Is(err, interactive.ErrAborted) {
			return err
		}
		if !overwrite {
			_, _ = fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	// Ensure parent directory exists
	parentDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", parentDir, err)
	}

	if err := os.WriteFile(outputPath, tmpl.Content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpl.FileName, err)
	}

	if quiet {
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Created %s\n", outputPath)
	_, _ = fmt.Fprintln(stdout, "\nNext steps:")
	_, _ = fmt.Fprintf(stdout, "  1. Edit %s to customize\n", tmpl.FileName)
	_, _ = fmt.Fprintln(stdout, "  2. Run 'badlock device' to check the adb connection")
	_, _ = fmt.Fprintln(stdout, "  3. Run 'badlock refresh'")

	return nil
}

// selectTemplate shows a menu of templates. Without a terminal the settings
// template is used.
func selectTemplate(prompter *interactive.Prompter) (string, error) {
	names := templates.List()
	if !prompter.Interactive() {
		return "config", nil
	}

	options := make([]interactive.Option, len(names))
	for i, name := range names {
		options[i] = interactive.Option{Label: name, Description: templates.GetDescription(name)}
	}
	i, err := prompter.Select("Select a template:", options)
	if err != nil {
		return "", err
	}
	return names[i], nil
}
