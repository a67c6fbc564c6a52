package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/operations"
	"github.com/Epistemic-Technology/docparse/internal/storage"
	"github.com/Epistemic-Technology/docparse/models"
)

type ZoteroSearchQuery struct {
	Query      string   `json:"query,omitempty"`      // Quick search text (searches title, creator, year)
	Tags       []string `json:"tags,omitempty"`       // Filter by tags
	ItemTypes  []string `json:"item_types,omitempty"` // Filter by type (e.g., "book", "report")
	Collection string   `json:"collection,omitempty"` // Filter by collection key (optional)
	Limit      int      `json:"limit,omitempty"`      // Max results (default 25)
}

type ZoteroSearchResponse struct {
	Attachments []ZoteroAttachmentResult `json:"attachments"`
	Count       int                      `json:"count"`
}

type ZoteroAttachmentResult struct {
	Key         string `json:"key"` // Use this as zotero_id in document-parse
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	ParentKey   string `json:"parent_key"`
	ParentTitle string `json:"parent_title"`
	// DocumentID is set when the attachment has already been parsed.
	DocumentID string `json:"document_id,omitempty"`
}

func ZoteroSearchTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ZoteroSearchQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "zotero-search",
		Description: "Search a Zotero library and list the attached files document-parse can read (PDF, DOCX, spreadsheets, CSV). Pass an attachment key as zotero_id to document-parse.",
		InputSchema: inputschema,
	}
}

func ZoteroSearchToolHandler(ctx context.Context, req *mcp.CallToolRequest, query ZoteroSearchQuery, supports func(string) bool, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *ZoteroSearchResponse, error) {
	log.Info("zotero-search tool called")

	zoteroAPIKey := os.Getenv("ZOTERO_API_KEY")
	if zoteroAPIKey == "" {
		return nil, nil, fmt.Errorf("ZOTERO_API_KEY environment variable not set")
	}

	libraryID := os.Getenv("ZOTERO_LIBRARY_ID")
	if libraryID == "" {
		return nil, nil, fmt.Errorf("ZOTERO_LIBRARY_ID environment variable not set")
	}

	attachments, err := operations.FindZoteroAttachments(ctx, zoteroAPIKey, libraryID, operations.ZoteroSearchParams{
		Query:      query.Query,
		Tags:       query.Tags,
		ItemTypes:  query.ItemTypes,
		Collection: query.Collection,
		Limit:      query.Limit,
	}, supports, log)
	if err != nil {
		return nil, nil, err
	}

	results := make([]ZoteroAttachmentResult, len(attachments))
	for i, att := range attachments {
		results[i] = ZoteroAttachmentResult{
			Key:         att.Key,
			Filename:    att.Filename,
			ContentType: att.ContentType,
			ParentKey:   att.ParentKey,
			ParentTitle: att.ParentTitle,
		}
		docID := storage.GenerateDocumentID(models.SourceInfo{ZoteroID: att.Key}, nil)
		exists, err := store.DocumentExists(ctx, docID)
		if err != nil {
			log.Warn("Failed to check stored result for %s: %v", att.Key, err)
			continue
		}
		if exists {
			results[i].DocumentID = docID
		}
	}

	return nil, &ZoteroSearchResponse{Attachments: results, Count: len(results)}, nil
}
