// Package documents routes files to the format adapter that understands
// them and assembles the normalized result.
package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Epistemic-Technology/docparse/internal/delimited"
	"github.com/Epistemic-Technology/docparse/internal/docx"
	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/internal/pdf"
	"github.com/Epistemic-Technology/docparse/internal/sheet"
	"github.com/Epistemic-Technology/docparse/models"
)

// Adapter turns one file format into pages.
type Adapter interface {
	Name() string
	Extensions() []string
	Supports(path string) bool
	Parse(ctx context.Context, path string) ([]models.PageResult, error)
}

// Options tunes the built-in adapters and batch fan-out.
type Options struct {
	WordsPerPage int
	Workers      int
}

type Parser struct {
	adapters []Adapter
	workers  int
	log      logger.Logger
	now      func() time.Time
}

// NewParser registers the PDF, DOCX, spreadsheet and CSV adapters, in that
// order.
func NewParser(opts Options, log logger.Logger) *Parser {
	return NewParserWithAdapters(opts.Workers, log,
		pdf.New(log),
		docx.New(log, opts.WordsPerPage),
		sheet.New(log),
		delimited.New(log),
	)
}

// NewParserWithAdapters builds a parser over an explicit adapter list. The
// first adapter whose Supports accepts a path handles it.
func NewParserWithAdapters(workers int, log logger.Logger, adapters ...Adapter) *Parser {
	if workers <= 0 {
		workers = defaultMaxWorkers
	}
	return &Parser{
		adapters: adapters,
		workers:  workers,
		log:      log,
		now:      time.Now,
	}
}

// Parse normalizes a single file. Existence is checked before any adapter
// is consulted.
func (p *Parser) Parse(ctx context.Context, path string) (*models.DocumentResult, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, parseerr.Wrap(parseerr.FileNotFound, path, err, "file not found")
		}
		return nil, parseerr.Wrap(parseerr.ParsingFailed, path, err, "cannot stat file")
	}

	adapter := p.adapterFor(path)
	if adapter == nil {
		return nil, parseerr.New(parseerr.UnsupportedFileType, path,
			"unsupported file type %q, supported: %s", filepath.Ext(path), strings.Join(p.SupportedExtensions(), ", "))
	}

	p.log.Info("Parsing %s with %s adapter", path, adapter.Name())
	pages, err := adapter.Parse(ctx, path)
	if err != nil {
		var perr *parseerr.Error
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, parseerr.Wrap(parseerr.ParsingFailed, path, err, "failed to parse document")
	}

	info := models.DocumentInfo{
		Filename:  filepath.Base(path),
		FileType:  FileTypeFor(path),
		CreatedAt: p.now(),
		FileSize:  stat.Size(),
	}
	doc := models.NewDocumentResult(info, pages)
	p.log.Info("Parsed %s: %d pages", info.Filename, doc.DocumentInfo.TotalPages)
	return doc, nil
}

// Supports reports whether any registered adapter accepts path. It never
// touches the filesystem.
func (p *Parser) Supports(path string) bool {
	return p.adapterFor(path) != nil
}

// SupportedExtensions returns the sorted union of adapter extensions.
func (p *Parser) SupportedExtensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, a := range p.adapters {
		for _, ext := range a.Extensions() {
			ext = strings.ToLower(ext)
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

func (p *Parser) adapterFor(path string) Adapter {
	for _, a := range p.adapters {
		if a.Supports(path) {
			return a
		}
	}
	return nil
}

// FileTypeFor maps an extension to the file type tag. Macro-enabled
// workbooks report as xlsx.
func FileTypeFor(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "xlsm" {
		return models.FileTypeXLSX
	}
	return ext
}
