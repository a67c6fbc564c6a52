package tools

import (
	"context"
	"errors"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/llm"
	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/operations"
	"github.com/Epistemic-Technology/docparse/internal/storage"
)

type DocumentSummarizeQuery struct {
	DocumentID string `json:"document_id,omitempty"`
	Path       string `json:"path,omitempty"`
	ZoteroID   string `json:"zotero_id,omitempty"`
	URL        string `json:"url,omitempty"`
	RawData    []byte `json:"raw_data,omitempty"`
	Filename   string `json:"filename,omitempty"`
}

type DocumentSummarizeResponse struct {
	DocumentID    string   `json:"document_id,omitempty"`
	ResourcePaths []string `json:"resource_paths,omitempty"`
	Filename      string   `json:"filename,omitempty"`
	Summary       string   `json:"summary,omitempty"`
}

func DocumentSummarizeTool() *mcp.Tool {
	inputschema, err := jsonschema.For[DocumentSummarizeQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "document-summarize",
		Description: "Summarize a document using OpenAI's GPT-5 Mini. Pass the document_id of a stored result, or a source (path, URL, Zotero key or raw bytes) which is parsed first if needed.",
		InputSchema: inputschema,
	}
}

func DocumentSummarizeToolHandler(ctx context.Context, req *mcp.CallToolRequest, query DocumentSummarizeQuery, parser operations.DocumentParser, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *DocumentSummarizeResponse, error) {
	log.Info("document-summarize tool called")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	docID, doc, err := resolveDocument(ctx, query.DocumentID, operations.Request{
		Path:     query.Path,
		URL:      query.URL,
		ZoteroID: query.ZoteroID,
		Data:     query.RawData,
		Filename: query.Filename,
	}, parser, store, log)
	if err != nil {
		return nil, nil, err
	}

	summary, err := llm.SummarizeDocument(ctx, apiKey, doc, log)
	if err != nil {
		return nil, nil, err
	}

	responseData := &DocumentSummarizeResponse{
		DocumentID:    docID,
		ResourcePaths: storage.CalculateResourcePaths(docID, doc),
		Filename:      doc.DocumentInfo.Filename,
		Summary:       summary,
	}

	return nil, responseData, nil
}
