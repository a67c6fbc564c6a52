package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Epistemic-Technology/docparse/models"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath. ":memory:" is
// accepted for tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		file_type TEXT NOT NULL,
		total_pages INTEGER NOT NULL,
		file_size INTEGER NOT NULL,
		parsed_at TEXT NOT NULL,
		zotero_id TEXT,
		url TEXT,
		path TEXT,
		stored_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS pages (
		document_id TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		content TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		char_count INTEGER NOT NULL,
		PRIMARY KEY (document_id, page_number),
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_documents_zotero_id ON documents(zotero_id);
	CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);
	`

	_, err := s.db.Exec(schema)
	return err
}

// StoreDocument saves doc under docID. Pages of an earlier result with the
// same ID are replaced, not merged.
func (s *SQLiteStore) StoreDocument(ctx context.Context, docID string, doc *models.DocumentResult, sourceInfo models.SourceInfo) error {
	if doc == nil {
		return errors.New("nil document")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	info := doc.DocumentInfo
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (id, filename, file_type, total_pages, file_size, parsed_at, zotero_id, url, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, docID, info.Filename, info.FileType, info.TotalPages, info.FileSize,
		info.CreatedAt.UTC().Format(time.RFC3339Nano),
		sourceInfo.ZoteroID, sourceInfo.URL, sourceInfo.Path)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("failed to clear old pages: %w", err)
	}

	for _, page := range doc.Pages {
		content, err := json.Marshal(page.Content)
		if err != nil {
			return fmt.Errorf("failed to marshal page %d: %w", page.PageNumber, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO pages (document_id, page_number, content, word_count, char_count)
			VALUES (?, ?, ?, ?, ?)
		`, docID, page.PageNumber, string(content), page.Metadata.WordCount, page.Metadata.CharCount)
		if err != nil {
			return fmt.Errorf("failed to insert page %d: %w", page.PageNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLiteStore) getInfo(ctx context.Context, docID string) (models.DocumentInfo, models.SourceInfo, error) {
	var info models.DocumentInfo
	var source models.SourceInfo
	var parsedAt string
	var zoteroID, url, path sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT filename, file_type, total_pages, file_size, parsed_at, zotero_id, url, path
		FROM documents
		WHERE id = ?
	`, docID).Scan(&info.Filename, &info.FileType, &info.TotalPages, &info.FileSize, &parsedAt, &zoteroID, &url, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return info, source, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	if err != nil {
		return info, source, fmt.Errorf("failed to query document: %w", err)
	}

	info.CreatedAt, err = time.Parse(time.RFC3339Nano, parsedAt)
	if err != nil {
		return info, source, fmt.Errorf("failed to parse timestamp %q: %w", parsedAt, err)
	}
	source = models.SourceInfo{ZoteroID: zoteroID.String, URL: url.String, Path: path.String}
	return info, source, nil
}

// GetDocument rebuilds the stored result for docID
func (s *SQLiteStore) GetDocument(ctx context.Context, docID string) (*models.DocumentResult, error) {
	info, _, err := s.getInfo(ctx, docID)
	if err != nil {
		return nil, err
	}
	pages, err := s.GetPages(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &models.DocumentResult{DocumentInfo: info, Pages: pages}, nil
}

// DocumentExists reports whether docID has been stored
func (s *SQLiteStore) DocumentExists(ctx context.Context, docID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE id = ?`, docID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query document: %w", err)
	}
	return n > 0, nil
}

// GetPage retrieves a specific page by document ID and page number (1-indexed)
func (s *SQLiteStore) GetPage(ctx context.Context, docID string, pageNum int) (*models.PageResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT page_number, content, word_count, char_count
		FROM pages
		WHERE document_id = ? AND page_number = ?
	`, docID, pageNum)

	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %d of document %s: %w", pageNum, docID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPages retrieves all pages for a document
func (s *SQLiteStore) GetPages(ctx context.Context, docID string) ([]models.PageResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page_number, content, word_count, char_count
		FROM pages
		WHERE document_id = ?
		ORDER BY page_number
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	pages := []models.PageResult{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}

	return pages, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (models.PageResult, error) {
	var page models.PageResult
	var content string
	if err := row.Scan(&page.PageNumber, &content, &page.Metadata.WordCount, &page.Metadata.CharCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return page, err
		}
		return page, fmt.Errorf("failed to scan page: %w", err)
	}
	if err := json.Unmarshal([]byte(content), &page.Content); err != nil {
		return page, fmt.Errorf("failed to unmarshal page %d: %w", page.PageNumber, err)
	}
	return page, nil
}

// ListDocuments returns a list of all stored documents, most recent first
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]models.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM documents ORDER BY stored_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	rows.Close()

	documents := make([]models.StoredDocument, 0, len(ids))
	for _, id := range ids {
		info, source, err := s.getInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		documents = append(documents, models.StoredDocument{DocumentID: id, Info: info, SourceInfo: source})
	}

	return documents, nil
}

// DeleteDocument removes a document and all associated data
func (s *SQLiteStore) DeleteDocument(ctx context.Context, docID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete pages: %w", err)
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GenerateDocumentID derives a stable ID for a document. Zotero items keep
// their key; everything else is identified by a content hash prefixed with
// the kind of source.
func GenerateDocumentID(sourceInfo models.SourceInfo, data []byte) string {
	if sourceInfo.ZoteroID != "" {
		return "zotero_" + sourceInfo.ZoteroID
	}
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:12])
	switch {
	case sourceInfo.URL != "":
		return "url_" + digest
	case sourceInfo.Path != "":
		return "file_" + digest
	default:
		return "data_" + digest
	}
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
