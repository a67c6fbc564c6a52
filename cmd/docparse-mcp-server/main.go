package main

import (
	"context"
	"io"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/config"
	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("DOCPARSE_CONFIG"))
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg, os.Stderr)
	log.Info("Starting docparse MCP server")

	srv, store, err := server.CreateServer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create server: %v", err)
	}
	defer store.Close()

	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal("Server failed: %v", err)
	}
}

// newLogger builds the configured logger, falling back to fallback when the
// configured output cannot be opened.
func newLogger(cfg config.Config, fallback io.Writer) logger.Logger {
	log, err := logger.NewLogger(cfg.LogConfig())
	if err == nil {
		return log
	}
	log, _ = logger.NewLogger(logger.LogConfig{Writer: fallback, Level: cfg.Log.Level})
	log.Warn("Logger initialization failed, logging to stderr: %v", err)
	return log
}
