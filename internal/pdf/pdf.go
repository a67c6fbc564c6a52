// Package pdf extracts per-page text, paragraphs and headings from PDF
// files.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/models"
)

type Adapter struct {
	log logger.Logger
}

func New(log logger.Logger) *Adapter {
	return &Adapter{log: log}
}

func (a *Adapter) Name() string { return "pdf" }

func (a *Adapter) Extensions() []string { return []string{".pdf"} }

func (a *Adapter) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Parse returns one page per native PDF page. Pages without extractable
// text come back with empty text rather than an error.
func (a *Adapter) Parse(ctx context.Context, path string) ([]models.PageResult, error) {
	a.log.Info("Starting PDF parsing for: %s", path)

	texts, err := a.extractPageTexts(path)
	if err != nil {
		return nil, classifyError(path, err)
	}

	pages := make([]models.PageResult, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, BuildPage(i+1, text))
	}

	a.log.Info("Successfully parsed %d pages from PDF", len(pages))
	return pages, nil
}

// extractPageTexts opens the file once. pdfcpu validates the document and
// supplies the page count; ledongthuc/pdf supplies the text of each page.
func (a *Adapter) extractPageTexts(path string) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("malformed PDF structure: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pageCount := -1
	pdfContext, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	switch {
	case err != nil && IsPasswordError(err):
		return nil, err
	case err != nil:
		a.log.Warn("PDF validation failed for %s, falling back to text reader: %v", path, err)
	default:
		pageCount = pdfContext.PageCount
	}

	reader, err := lpdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}
	if pageCount < 0 {
		pageCount = reader.NumPage()
	}

	texts = make([]string, pageCount)
	for i := range pageCount {
		texts[i] = a.pageText(reader, i+1)
	}
	return texts, nil
}

func (a *Adapter) pageText(reader *lpdf.Reader, n int) string {
	page := reader.Page(n)
	if page.V.IsNull() {
		a.log.Debug("Page %d has no page object", n)
		return ""
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		a.log.Warn("Failed to extract text from page %d: %v", n, err)
		return ""
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		pieces := make([]string, 0, len(row.Content))
		for _, t := range row.Content {
			pieces = append(pieces, t.S)
		}
		lines = append(lines, Line{Y: float64(row.Position), Pieces: pieces})
	}
	return LinesToText(lines)
}

// classifyError maps extraction failures: anything mentioning a password is
// PasswordProtected, everything else CorruptedFile.
func classifyError(path string, err error) error {
	if IsPasswordError(err) {
		return parseerr.Wrap(parseerr.PasswordProtected, path, err, "PDF file is password protected")
	}
	return parseerr.Wrap(parseerr.CorruptedFile, path, err, fmt.Sprintf("failed to parse PDF file %s", filepath.Base(path)))
}

// IsPasswordError reports whether err indicates an encrypted document that
// could not be opened.
func IsPasswordError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "password")
}
