// Package sheet turns spreadsheet workbooks into one page per sheet.
package sheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/internal/tabular"
	"github.com/Epistemic-Technology/docparse/models"
)

// maxParagraphRows caps the per-row paragraph view; the text rendering is
// never capped.
const maxParagraphRows = 50

var extensions = []string{".xlsx", ".xlsm", ".xls"}

// Sheet is one worksheet's raw cell values, header row first.
type Sheet struct {
	Name    string
	Records [][]string
}

type Adapter struct {
	log logger.Logger
}

func New(log logger.Logger) *Adapter {
	return &Adapter{log: log}
}

func (a *Adapter) Name() string { return "sheet" }

func (a *Adapter) Extensions() []string { return extensions }

func (a *Adapter) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Parse reads every sheet before building any page; a failure on any sheet
// fails the whole file.
func (a *Adapter) Parse(ctx context.Context, path string) ([]models.PageResult, error) {
	a.log.Info("Starting spreadsheet parsing for: %s", path)

	sheets, err := readWorkbook(path)
	if err != nil {
		a.log.Error("Failed to read workbook %s: %v", path, err)
		return nil, parseerr.Wrap(parseerr.CorruptedFile, path, err, "failed to parse spreadsheet")
	}

	pages := make([]models.PageResult, 0, len(sheets))
	for i, sh := range sheets {
		a.log.Debug("Processing sheet %d: %s (%d records)", i+1, sh.Name, len(sh.Records))
		pages = append(pages, BuildPage(i+1, sh))
	}

	a.log.Info("Successfully parsed %d sheets from %s", len(pages), filepath.Base(path))
	return pages, nil
}

func readWorkbook(path string) ([]Sheet, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return readXLS(path)
	}
	return readXLSX(path)
}

// BuildPage renders one sheet as a page.
func BuildPage(number int, sh Sheet) models.PageResult {
	frame := tabular.NewFrame(sh.Records)

	title := "Sheet: " + sh.Name
	lines := []string{title, tabular.Rule("=", len(sh.Name)+7), ""}

	var paragraphs []string
	headings := []models.HeadingInfo{{Level: 1, Text: title}}
	var tables []models.TableContent

	if frame.Empty() {
		lines = append(lines, "(Empty sheet)")
	} else {
		header := tabular.JoinRow(frame.Columns)
		lines = append(lines, header, tabular.Rule("-", len(header)))
		for _, row := range frame.Rows {
			lines = append(lines, tabular.JoinRow(row))
		}

		paragraphs = append(paragraphs, "Headers: "+header)
		shown := min(len(frame.Rows), maxParagraphRows)
		for _, row := range frame.Rows[:shown] {
			if desc := tabular.DescribeRow(frame.Columns, row); desc != "" {
				paragraphs = append(paragraphs, desc)
			}
		}
		if len(frame.Rows) > shown {
			paragraphs = append(paragraphs, fmt.Sprintf("... (%d more rows)", len(frame.Rows)-shown))
		}

		for _, col := range frame.Columns {
			if strings.TrimSpace(col) != "" && !tabular.IsUnnamedColumn(col) {
				headings = append(headings, models.HeadingInfo{Level: 2, Text: col})
			}
		}
		tables = append(tables, frame.Table())
	}

	return models.NewPageResult(number, models.PageContent{
		Text:       strings.Join(lines, "\n"),
		Paragraphs: paragraphs,
		Headings:   headings,
		Tables:     tables,
	})
}
