// Package docx parses flow documents and synthesizes pages for them.
package docx

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/models"
)

type Adapter struct {
	log          logger.Logger
	wordsPerPage int
}

// New returns a DOCX adapter. A non-positive wordsPerPage selects
// DefaultWordsPerPage.
func New(log logger.Logger, wordsPerPage int) *Adapter {
	if wordsPerPage <= 0 {
		wordsPerPage = DefaultWordsPerPage
	}
	return &Adapter{log: log, wordsPerPage: wordsPerPage}
}

func (a *Adapter) Name() string { return "docx" }

func (a *Adapter) Extensions() []string { return []string{".docx"} }

func (a *Adapter) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}

func (a *Adapter) Parse(ctx context.Context, path string) ([]models.PageResult, error) {
	a.log.Info("Starting DOCX parsing for: %s", path)

	doc, err := readDocument(path)
	if err != nil {
		a.log.Error("Failed to read DOCX %s: %v", path, err)
		return nil, parseerr.Wrap(parseerr.CorruptedFile, path, err, "failed to parse DOCX file")
	}

	pages := BuildPages(doc, a.wordsPerPage)
	a.log.Info("Extracted %d paragraphs, %d tables into %d pages", len(doc.Paragraphs), len(doc.Tables), len(pages))
	return pages, nil
}

// BuildPages synthesizes pages from a decoded document. Headings and tables
// stay on the page where they occur; a table goes with the paragraph that
// follows it, or the last page when nothing follows.
func BuildPages(doc *Document, wordsPerPage int) []models.PageResult {
	texts := make([]string, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		texts[i] = p.Text
	}

	spans := Paginate(texts, doc.Breaks, wordsPerPage)
	if len(spans) == 0 {
		var tables []models.TableContent
		for _, t := range doc.Tables {
			tables = append(tables, t.Content)
		}
		return []models.PageResult{models.NewPageResult(1, models.PageContent{Tables: tables})}
	}

	pages := make([]models.PageResult, 0, len(spans))
	for i, span := range spans {
		content := models.PageContent{
			Text:       strings.Join(texts[span.Start:span.End], "\n\n"),
			Paragraphs: append([]string(nil), texts[span.Start:span.End]...),
		}
		for _, p := range doc.Paragraphs[span.Start:span.End] {
			if p.HeadingLevel > 0 {
				content.Headings = append(content.Headings, models.HeadingInfo{Level: p.HeadingLevel, Text: p.Text})
			}
		}
		last := i == len(spans)-1
		for _, t := range doc.Tables {
			if (t.Position >= span.Start && t.Position < span.End) || (last && t.Position >= span.End) {
				content.Tables = append(content.Tables, t.Content)
			}
		}
		pages = append(pages, models.NewPageResult(i+1, content))
	}
	return pages
}
