package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/models"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		output    string
		outputDir string
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "parse FILES...",
		Short: "Parse document files and print or save their JSON",
		Long: `Parse one or more documents. Without --output or --output-dir the
JSON is written to stdout. Unsupported files are skipped with a warning and
parse errors are reported without stopping the remaining files.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return errors.New("cannot use --output with multiple files, use --output-dir instead")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if !a.parser.Supports(path) {
					fmt.Fprintf(errOut, "Warning: unsupported file type: %s\n", path)
					continue
				}

				a.log.Info("Processing: %s", path)
				doc, err := a.parser.Parse(cmd.Context(), path)
				if err != nil {
					if parseerr.IsParsingError(err) {
						fmt.Fprintf(errOut, "Error parsing %s: %v\n", path, err)
					} else {
						fmt.Fprintf(errOut, "Unexpected error processing %s: %v\n", path, err)
					}
					continue
				}

				target := output
				if target == "" && outputDir != "" {
					target = jsonOutputPath(outputDir, path)
				}
				if target == "" {
					s, err := doc.ToJSON(pretty)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, s)
					continue
				}

				if err := doc.SaveToFile(target, pretty); err != nil {
					fmt.Fprintf(errOut, "Error saving %s: %v\n", target, err)
					continue
				}
				fmt.Fprintf(out, "Saved: %s\n", target)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (single input only)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for one <name>.json per input")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		outputDir string
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "batch FILES...",
		Short: "Parse many files concurrently into an output directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			batch := a.parser.ParseBatch(cmd.Context(), args)

			// Results keep input order but skip failures, so walk both.
			next := 0
			failed := make(map[string]int, len(batch.Failures))
			for _, f := range batch.Failures {
				failed[f.Path]++
			}
			for _, path := range args {
				if failed[path] > 0 {
					failed[path]--
					continue
				}
				doc := batch.Results[next]
				next++
				target := jsonOutputPath(outputDir, path)
				if err := doc.SaveToFile(target, pretty); err != nil {
					batch.Failures = append(batch.Failures, models.BatchFailure{Path: path, Error: err.Error(), Err: err})
					continue
				}
				fmt.Fprintf(out, "Saved: %s\n", target)
			}

			for _, f := range batch.Failures {
				fmt.Fprintf(errOut, "Failed: %s: %s\n", f.Path, f.Error)
			}
			fmt.Fprintf(out, "Parsed %d of %d files\n", len(args)-len(batch.Failures), len(args))
			if len(batch.Failures) > 0 {
				return fmt.Errorf("%d of %d files failed", len(batch.Failures), len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for one <name>.json per input")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	_ = cmd.MarkFlagRequired("output-dir")
	return cmd
}

// jsonOutputPath names the JSON file for input inside dir after the
// input's base name without its extension.
func jsonOutputPath(dir, input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+".json")
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show supported file types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Document Parser Information")
			fmt.Fprintln(out, strings.Repeat("=", 30))
			fmt.Fprintf(out, "Supported file types: %s\n", strings.Join(a.parser.SupportedExtensions(), ", "))
			fmt.Fprintf(out, "Batch workers: %d, DOCX words per page: %d\n", a.cfg.Workers, a.cfg.WordsPerPage)
			fmt.Fprintln(out, "\nExample usage:")
			fmt.Fprintf(out, "  %s parse document.pdf --output result.json\n", cmd.Root().Name())
			fmt.Fprintf(out, "  %s batch *.pdf *.docx --output-dir results/\n", cmd.Root().Name())
			return nil
		},
	}
}
