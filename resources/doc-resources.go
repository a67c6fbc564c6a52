package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/storage"
	"github.com/Epistemic-Technology/docparse/models"
)

const scheme = "doc://"

// DocumentResourceHandler serves stored parse results as doc:// resources
type DocumentResourceHandler struct {
	store storage.Store
}

func NewDocumentResourceHandler(store storage.Store) *DocumentResourceHandler {
	return &DocumentResourceHandler{store: store}
}

// ListResources returns the top-level resource of every stored document
func (h *DocumentResourceHandler) ListResources(ctx context.Context) ([]*mcp.Resource, error) {
	docs, err := h.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	resources := make([]*mcp.Resource, 0, len(docs))
	for _, doc := range docs {
		resources = append(resources, &mcp.Resource{
			URI:         scheme + doc.DocumentID,
			Name:        doc.Info.Filename,
			Description: fmt.Sprintf("Parsed %s document with %d pages", strings.ToUpper(doc.Info.FileType), doc.Info.TotalPages),
			MIMEType:    "application/json",
		})
	}

	return resources, nil
}

type tableRef struct {
	PageNumber int               `json:"page_number"`
	Rows       []models.TableRow `json:"rows"`
}

// ReadResource reads a specific resource by URI:
// doc://{id}, doc://{id}/pages, doc://{id}/pages/{n}, doc://{id}/headings
// or doc://{id}/tables.
func (h *DocumentResourceHandler) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	if !strings.HasPrefix(uri, scheme) {
		return nil, fmt.Errorf("invalid URI scheme, expected %s", scheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, scheme), "/")
	docID := parts[0]
	if docID == "" {
		return nil, fmt.Errorf("invalid URI, missing document ID")
	}
	resourceType := ""
	if len(parts) > 1 {
		resourceType = parts[1]
	}
	if len(parts) > 3 || (len(parts) == 3 && resourceType != "pages") {
		return nil, fmt.Errorf("unknown resource path: %s", uri)
	}

	var payload any
	var err error

	switch resourceType {
	case "":
		payload, err = h.documentSummary(ctx, docID)
	case "pages":
		if len(parts) == 3 {
			n, convErr := strconv.Atoi(parts[2])
			if convErr != nil {
				return nil, fmt.Errorf("invalid page number: %s", parts[2])
			}
			payload, err = h.store.GetPage(ctx, docID, n)
		} else {
			payload, err = h.pages(ctx, docID)
		}
	case "headings":
		doc, getErr := h.store.GetDocument(ctx, docID)
		if getErr == nil {
			payload = doc.AllHeadings()
		}
		err = getErr
	case "tables":
		payload, err = h.tables(ctx, docID)
	default:
		return nil, fmt.Errorf("unknown resource type: %s", resourceType)
	}

	if errors.Is(err, storage.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(content),
			},
		},
	}, nil
}

func (h *DocumentResourceHandler) documentSummary(ctx context.Context, docID string) (map[string]any, error) {
	doc, err := h.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"document_id":         docID,
		"document_info":       doc.DocumentInfo,
		"total_words":         doc.TotalWords(),
		"total_chars":         doc.TotalChars(),
		"heading_count":       len(doc.AllHeadings()),
		"table_count":         len(doc.AllTables()),
		"available_resources": storage.CalculateResourcePaths(docID, doc),
	}, nil
}

// pages distinguishes an unknown document from one without pages.
func (h *DocumentResourceHandler) pages(ctx context.Context, docID string) ([]models.PageResult, error) {
	pages, err := h.store.GetPages(ctx, docID)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		exists, err := h.store.DocumentExists(ctx, docID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("document %s: %w", docID, storage.ErrNotFound)
		}
	}
	return pages, nil
}

// tables flattens every page's tables, tagging each with its page.
func (h *DocumentResourceHandler) tables(ctx context.Context, docID string) ([]tableRef, error) {
	pages, err := h.pages(ctx, docID)
	if err != nil {
		return nil, err
	}

	out := []tableRef{}
	for _, page := range pages {
		for _, t := range page.Content.Tables {
			out = append(out, tableRef{PageNumber: page.PageNumber, Rows: t.Rows})
		}
	}
	return out, nil
}
