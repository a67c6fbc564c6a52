package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/operations"
	"github.com/Epistemic-Technology/docparse/internal/storage"
)

type DocumentParseQuery struct {
	Path     string `json:"path,omitempty"`
	ZoteroID string `json:"zotero_id,omitempty"`
	URL      string `json:"url,omitempty"`
	RawData  []byte `json:"raw_data,omitempty"`
	Filename string `json:"filename,omitempty"`
	Force    bool   `json:"force,omitempty"`
}

func (q DocumentParseQuery) request() operations.Request {
	return operations.Request{
		Path:     q.Path,
		URL:      q.URL,
		ZoteroID: q.ZoteroID,
		Data:     q.RawData,
		Filename: q.Filename,
		Force:    q.Force,
	}
}

type DocumentParseResponse struct {
	DocumentID    string   `json:"document_id"`
	ResourcePaths []string `json:"resource_paths"`
	Filename      string   `json:"filename"`
	FileType      string   `json:"file_type"`
	PageCount     int      `json:"page_count"`
	WordCount     int      `json:"word_count"`
	HeadingCount  int      `json:"heading_count"`
	TableCount    int      `json:"table_count"`
}

func DocumentParseTool() *mcp.Tool {
	inputschema, err := jsonschema.For[DocumentParseQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "document-parse",
		Description: "Parse a PDF, DOCX, XLSX/XLSM/XLS or CSV document into pages with text, paragraphs, headings and tables. Provide a local path, a URL, a Zotero attachment key or raw bytes (with a filename). Results are stored and exposed as doc:// resources; set force to reparse.",
		InputSchema: inputschema,
	}
}

func DocumentParseToolHandler(ctx context.Context, req *mcp.CallToolRequest, query DocumentParseQuery, parser operations.DocumentParser, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *DocumentParseResponse, error) {
	log.Info("document-parse tool called")
	docID, doc, err := operations.GetOrParseDocument(ctx, query.request(), parser, store, log)
	if err != nil {
		log.Error("document-parse tool failed: %v", err)
		return nil, nil, err
	}

	responseData := &DocumentParseResponse{
		DocumentID:    docID,
		ResourcePaths: storage.CalculateResourcePaths(docID, doc),
		Filename:      doc.DocumentInfo.Filename,
		FileType:      doc.DocumentInfo.FileType,
		PageCount:     doc.TotalPages(),
		WordCount:     doc.TotalWords(),
		HeadingCount:  len(doc.AllHeadings()),
		TableCount:    len(doc.AllTables()),
	}

	return nil, responseData, nil
}
