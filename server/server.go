package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/config"
	"github.com/Epistemic-Technology/docparse/internal/documents"
	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/report"
	"github.com/Epistemic-Technology/docparse/internal/storage"
	"github.com/Epistemic-Technology/docparse/resources"
	"github.com/Epistemic-Technology/docparse/tools"
)

const version = "v0.1.0"

// CreateServer wires the dispatcher, store and renderer into an MCP server.
// The returned store must be closed by the caller.
func CreateServer(cfg config.Config, log logger.Logger) (*mcp.Server, storage.Store, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: "docparse", Version: version}, nil)

	store, err := initializeStorage(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	parser := documents.NewParser(documents.Options{WordsPerPage: cfg.WordsPerPage, Workers: cfg.Workers}, log)
	renderer := report.NewRenderer(cfg.TemplateDir, log)
	docResourceHandler := resources.NewDocumentResourceHandler(store)

	mcp.AddTool(server, tools.DocumentParseTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.DocumentParseQuery) (*mcp.CallToolResult, *tools.DocumentParseResponse, error) {
		return tools.DocumentParseToolHandler(ctx, req, query, parser, store, log)
	})

	mcp.AddTool(server, tools.DocumentRenderTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.DocumentRenderQuery) (*mcp.CallToolResult, *tools.DocumentRenderResponse, error) {
		return tools.DocumentRenderToolHandler(ctx, req, query, parser, store, renderer, log)
	})

	mcp.AddTool(server, tools.DocumentSummarizeTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.DocumentSummarizeQuery) (*mcp.CallToolResult, *tools.DocumentSummarizeResponse, error) {
		return tools.DocumentSummarizeToolHandler(ctx, req, query, parser, store, log)
	})

	mcp.AddTool(server, tools.SupportedFormatsTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.SupportedFormatsQuery) (*mcp.CallToolResult, *tools.SupportedFormatsResponse, error) {
		return tools.SupportedFormatsToolHandler(ctx, req, query, parser)
	})

	mcp.AddTool(server, tools.ZoteroSearchTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.ZoteroSearchQuery) (*mcp.CallToolResult, *tools.ZoteroSearchResponse, error) {
		return tools.ZoteroSearchToolHandler(ctx, req, query, parser.Supports, store, log)
	})

	readResource := func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return docResourceHandler.ReadResource(ctx, req.Params.URI)
	}

	templates := []*mcp.ResourceTemplate{
		{
			URITemplate: "doc://{documentId}",
			Name:        "document",
			Description: "Parsed document info, totals and the list of available resources",
		},
		{
			URITemplate: "doc://{documentId}/pages",
			Name:        "document-pages",
			Description: "All pages of the document with text, paragraphs, headings, tables and metadata",
		},
		{
			URITemplate: "doc://{documentId}/pages/{pageNumber}",
			Name:        "document-page",
			Description: "A specific page from the document (1-indexed)",
		},
		{
			URITemplate: "doc://{documentId}/headings",
			Name:        "document-headings",
			Description: "Every heading in the document in page order",
		},
		{
			URITemplate: "doc://{documentId}/tables",
			Name:        "document-tables",
			Description: "Every table in the document with the page it appears on",
		},
	}
	for _, tmpl := range templates {
		tmpl.MIMEType = "application/json"
		server.AddResourceTemplate(tmpl, readResource)
	}

	// Documents parsed in earlier sessions are listed as concrete resources.
	stored, err := docResourceHandler.ListResources(context.Background())
	if err != nil {
		log.Warn("Failed to list stored documents: %v", err)
	}
	for _, res := range stored {
		server.AddResource(res, readResource)
	}

	return server, store, nil
}

// initializeStorage creates and initializes the storage backend
func initializeStorage(cfg config.Config, log logger.Logger) (storage.Store, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	log.Info("Initializing SQLite database at: %s", dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}

	return store, nil
}
