package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/operations"
	"github.com/Epistemic-Technology/docparse/internal/report"
	"github.com/Epistemic-Technology/docparse/internal/storage"
)

type DocumentRenderQuery struct {
	DocumentID string               `json:"document_id,omitempty"`
	Path       string               `json:"path,omitempty"`
	ZoteroID   string               `json:"zotero_id,omitempty"`
	URL        string               `json:"url,omitempty"`
	Filename   string               `json:"filename,omitempty"`
	Templates  []report.TemplateDef `json:"templates"`
	Vars       map[string]string    `json:"vars,omitempty"`
}

type DocumentRenderResponse struct {
	DocumentID string            `json:"document_id"`
	Rendered   map[string]string `json:"rendered"`
}

func DocumentRenderTool() *mcp.Tool {
	inputschema, err := jsonschema.For[DocumentRenderQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "document-render",
		Description: "Render a parsed document through one or more Go text/template templates. Each template has a name and either an inline string, a file from the configured template directory, or a builtin (summary, detailed_report, json_summary). Templates see the document result and its query methods; vars are available under .Extra.",
		InputSchema: inputschema,
	}
}

func DocumentRenderToolHandler(ctx context.Context, req *mcp.CallToolRequest, query DocumentRenderQuery, parser operations.DocumentParser, store storage.Store, renderer *report.Renderer, log logger.Logger) (*mcp.CallToolResult, *DocumentRenderResponse, error) {
	log.Info("document-render tool called with %d templates", len(query.Templates))

	docID, doc, err := resolveDocument(ctx, query.DocumentID, operations.Request{
		Path:     query.Path,
		URL:      query.URL,
		ZoteroID: query.ZoteroID,
		Filename: query.Filename,
	}, parser, store, log)
	if err != nil {
		return nil, nil, err
	}

	extra := make(map[string]any, len(query.Vars))
	for k, v := range query.Vars {
		extra[k] = v
	}

	responseData := &DocumentRenderResponse{
		DocumentID: docID,
		Rendered:   renderer.RenderMultiple(query.Templates, doc, extra),
	}
	return nil, responseData, nil
}
