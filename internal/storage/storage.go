package storage

import (
	"context"
	"errors"

	"github.com/Epistemic-Technology/docparse/models"
)

// ErrNotFound is returned when a document ID or page is not stored.
var ErrNotFound = errors.New("not found")

// Store defines the interface for persisting parse results
type Store interface {
	// StoreDocument saves a parse result under docID, replacing any previous
	// result with the same ID
	StoreDocument(ctx context.Context, docID string, doc *models.DocumentResult, sourceInfo models.SourceInfo) error

	// GetDocument rebuilds the full result for a document
	GetDocument(ctx context.Context, docID string) (*models.DocumentResult, error)

	// DocumentExists reports whether docID has been stored
	DocumentExists(ctx context.Context, docID string) (bool, error)

	// GetPage retrieves a specific page by document ID and page number (1-indexed)
	GetPage(ctx context.Context, docID string, pageNum int) (*models.PageResult, error)

	// GetPages retrieves all pages for a document in order
	GetPages(ctx context.Context, docID string) ([]models.PageResult, error)

	// ListDocuments returns every stored document with its info and source
	ListDocuments(ctx context.Context) ([]models.StoredDocument, error)

	// DeleteDocument removes a document and its pages
	DeleteDocument(ctx context.Context, docID string) error

	// Close closes the database connection
	Close() error
}
