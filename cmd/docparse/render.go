package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/docparse/internal/report"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		tmpl         string
		templateFile string
		builtin      string
		templateDir  string
		vars         []string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Parse a document and render it through a template",
		Long: `Parse FILE and render it with an inline template (--template), a file
from the template directory (--template-file) or a builtin (--builtin).
Templates use Go text/template syntax; see "templates" for the builtins.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if tmpl == "" && templateFile == "" && builtin == "" {
				return errors.New("must specify --template, --template-file or --builtin")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseVars(vars)
			if err != nil {
				return err
			}

			def := report.TemplateDef{Name: "cli", String: tmpl, Builtin: builtin}
			dir := templateDir
			if dir == "" {
				dir = a.cfg.TemplateDir
			}
			if templateFile != "" {
				// Without a template directory the file is resolved next to itself.
				if dir == "" {
					dir = filepath.Dir(templateFile)
					templateFile = filepath.Base(templateFile)
				}
				def.File = templateFile
			}

			doc, err := a.parser.Parse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error parsing document: %w", err)
			}

			rendered, err := report.NewRenderer(dir, a.log).Render(def, doc, extra)
			if err != nil {
				return fmt.Errorf("error rendering template: %w", err)
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			}
			if err := report.SaveRendered(output, rendered); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered output saved to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tmpl, "template", "t", "", "inline template string")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "template file name")
	cmd.Flags().StringVar(&builtin, "builtin", "", "builtin template: "+strings.Join(report.BuiltinNames(), ", "))
	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory containing template files")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "extra template variable as key=value, repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	cmd.MarkFlagsMutuallyExclusive("template", "template-file", "builtin")
	return cmd
}

// parseVars turns key=value pairs into the template's Extra map. Later
// keys win.
func parseVars(pairs []string) (map[string]any, error) {
	extra := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		extra[key] = value
	}
	return extra, nil
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the builtin report templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available builtin templates")
			fmt.Fprintln(out, strings.Repeat("=", 30))
			for _, name := range report.BuiltinNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintf(out, "\nUsage: %s render document.pdf --builtin summary\n", cmd.Root().Name())
			fmt.Fprintf(out, "Custom: %s render document.pdf --template '{{.DocumentInfo.Filename}}: {{.TotalPages}} pages'\n", cmd.Root().Name())
			return nil
		},
	}
}
