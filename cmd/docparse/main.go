// Command docparse parses PDF, DOCX, spreadsheet and CSV files into a
// common JSON shape and renders reports from the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/docparse/internal/config"
	"github.com/Epistemic-Technology/docparse/internal/documents"
	"github.com/Epistemic-Technology/docparse/internal/logger"
)

// app carries the state shared by every subcommand once the root command
// has loaded configuration.
type app struct {
	configPath string
	verbose    bool
	logFile    string

	cfg    config.Config
	log    logger.Logger
	parser *documents.Parser
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "docparse",
		Short:         "Parse PDF, DOCX, spreadsheet and CSV files to JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (default $DOCPARSE_CONFIG)")

	root.AddCommand(
		newParseCmd(a),
		newBatchCmd(a),
		newInfoCmd(a),
		newRenderCmd(a),
		newTemplatesCmd(),
	)
	return root
}

// setup loads configuration and builds the logger and parser. Logs go to
// stderr unless --log-file is given, since stdout carries results.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("DOCPARSE_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.LogConfig()
	switch {
	case a.logFile != "":
		logCfg.Output = "file"
		logCfg.FilePath = a.logFile
	case logCfg.Output != "file":
		logCfg.Writer = cmd.ErrOrStderr()
	}
	if a.verbose {
		logCfg.Level = "debug"
	}

	log, err := logger.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log

	a.parser = documents.NewParser(documents.Options{
		WordsPerPage: cfg.WordsPerPage,
		Workers:      cfg.Workers,
	}, log)
	return nil
}
