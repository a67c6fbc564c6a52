package tools

import (
	"context"
	"fmt"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/operations"
	"github.com/Epistemic-Technology/docparse/internal/storage"
	"github.com/Epistemic-Technology/docparse/models"
)

// resolveDocument loads a stored result by ID, or falls back to parsing the
// given source.
func resolveDocument(ctx context.Context, docID string, req operations.Request, parser operations.DocumentParser, store storage.Store, log logger.Logger) (string, *models.DocumentResult, error) {
	if docID != "" {
		doc, err := store.GetDocument(ctx, docID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load document %s: %w", docID, err)
		}
		return docID, doc, nil
	}
	return operations.GetOrParseDocument(ctx, req, parser, store, log)
}
