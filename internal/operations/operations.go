// Package operations holds the workflows shared by the CLI and the MCP
// tools.
package operations

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Epistemic-Technology/docparse/internal/documents"
	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/internal/storage"
	"github.com/Epistemic-Technology/docparse/models"
)

// DocumentParser is the part of the dispatcher the workflows need.
type DocumentParser interface {
	Parse(ctx context.Context, path string) (*models.DocumentResult, error)
}

// Request names one document. Exactly one of Path, URL, ZoteroID or Data
// should be set. Filename supplies the name (and so the format) for URL,
// Zotero and raw sources when it cannot be derived.
type Request struct {
	Path     string
	URL      string
	ZoteroID string
	Data     []byte
	Filename string
	// Force reparses even when a stored result exists.
	Force bool
}

func (r Request) sourceInfo() models.SourceInfo {
	return models.SourceInfo{ZoteroID: r.ZoteroID, URL: r.URL, Path: r.Path}
}

// fetcher is swapped out in tests.
var fetcher = documents.GetData

// GetOrParseDocument returns the stored result for the requested document
// or parses and stores it. Remote and raw inputs are staged in a temporary
// file so every source goes through the same dispatcher.
func GetOrParseDocument(ctx context.Context, req Request, parser DocumentParser, store storage.Store, log logger.Logger) (string, *models.DocumentResult, error) {
	sourceInfo := req.sourceInfo()

	var data []byte
	var detected string
	switch {
	case req.Path != "":
		raw, err := os.ReadFile(req.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", nil, parseerr.Wrap(parseerr.FileNotFound, req.Path, err, "file not found")
			}
			return "", nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
		}
		data = raw
	case req.ZoteroID != "" || req.URL != "":
		fetched, err := fetcher(ctx, sourceInfo)
		if err != nil {
			return "", nil, fmt.Errorf("failed to fetch document data: %w", err)
		}
		data, detected = fetched.Data, fetched.Type
	case req.Data != nil:
		data, detected = req.Data, documents.DetectDocumentType(req.Data)
	default:
		return "", nil, errors.New("one of path, url, zotero_id or data is required")
	}

	docID := storage.GenerateDocumentID(sourceInfo, data)

	if !req.Force {
		exists, err := store.DocumentExists(ctx, docID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to check document existence: %w", err)
		}
		if exists {
			log.Info("Using stored result for %s", docID)
			doc, err := store.GetDocument(ctx, docID)
			if err != nil {
				return "", nil, fmt.Errorf("failed to retrieve existing document: %w", err)
			}
			return docID, doc, nil
		}
	}

	var doc *models.DocumentResult
	var err error
	if req.Path != "" {
		doc, err = parser.Parse(ctx, req.Path)
	} else {
		doc, err = parseStaged(ctx, parser, stagingName(ctx, req, detected, log), data)
	}
	if err != nil {
		return "", nil, err
	}

	if err := store.StoreDocument(ctx, docID, doc, sourceInfo); err != nil {
		return "", nil, fmt.Errorf("failed to store parsed document: %w", err)
	}
	log.Info("Stored %s as %s", doc.DocumentInfo.Filename, docID)

	return docID, doc, nil
}

// parseStaged writes data to a temporary file called name and parses it.
func parseStaged(ctx context.Context, parser DocumentParser, name string, data []byte) (*models.DocumentResult, error) {
	dir, err := os.MkdirTemp("", "docparse-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(dir)

	staged := filepath.Join(dir, name)
	if err := os.WriteFile(staged, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to stage document: %w", err)
	}
	return parser.Parse(ctx, staged)
}

// stagingName picks a file name for a non-local source: the explicit
// Filename, then the Zotero attachment name or URL basename. A name
// without an extension gets one from the sniffed type.
func stagingName(ctx context.Context, req Request, detected string, log logger.Logger) string {
	name := req.Filename
	if name == "" && req.ZoteroID != "" {
		n, err := documents.ZoteroAttachmentName(ctx, req.ZoteroID, os.Getenv("ZOTERO_API_KEY"), os.Getenv("ZOTERO_LIBRARY_ID"))
		if err != nil {
			log.Warn("Could not look up Zotero attachment name for %s: %v", req.ZoteroID, err)
		}
		name = n
	}
	if name == "" && req.URL != "" {
		if u, err := url.Parse(req.URL); err == nil {
			if base := path.Base(u.Path); base != "/" && base != "." {
				name = base
			}
		}
	}

	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document"
	}
	if filepath.Ext(name) == "" && detected != "" && detected != "unknown" && detected != "zip" {
		name += "." + detected
	}
	return name
}
