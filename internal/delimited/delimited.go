// Package delimited parses CSV files into a single summary page.
package delimited

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/internal/tabular"
	"github.com/Epistemic-Technology/docparse/models"
)

const (
	maxDisplayRows   = 20
	maxParagraphRows = 10
)

type Adapter struct {
	log logger.Logger
}

func New(log logger.Logger) *Adapter {
	return &Adapter{log: log}
}

func (a *Adapter) Name() string { return "delimited" }

func (a *Adapter) Extensions() []string { return []string{".csv"} }

func (a *Adapter) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// Parse returns exactly one page describing the whole file.
func (a *Adapter) Parse(ctx context.Context, path string) ([]models.PageResult, error) {
	a.log.Info("Starting CSV parsing for: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parseerr.Wrap(parseerr.CorruptedFile, path, err, "failed to read CSV file")
	}

	frame, enc, delim, err := readFrame(data)
	if err != nil {
		a.log.Error("Failed to parse CSV %s: %v", path, err)
		return nil, parseerr.Wrap(parseerr.CorruptedFile, path, err, "failed to parse CSV file")
	}
	if enc == "default" {
		a.log.Warn("Using default CSV settings for %s", path)
	} else {
		a.log.Debug("Read CSV with encoding=%s, separator=%q", enc, delim)
	}

	page := BuildPage(filepath.Base(path), frame)
	a.log.Info("Successfully parsed CSV with %d rows and %d columns", len(frame.Rows), len(frame.Columns))
	return []models.PageResult{page}, nil
}

// BuildPage renders a frame read from the file called name.
func BuildPage(name string, frame tabular.Frame) models.PageResult {
	title := "CSV File: " + name
	lines := []string{
		title,
		tabular.Rule("=", len(name)+11),
		"",
		fmt.Sprintf("Rows: %d", len(frame.Rows)),
		fmt.Sprintf("Columns: %d", len(frame.Columns)),
		"",
	}

	var paragraphs []string
	headings := []models.HeadingInfo{{Level: 1, Text: title}}
	var tables []models.TableContent

	if frame.Empty() {
		lines = append(lines, "(Empty CSV file)")
	} else {
		header := tabular.JoinRow(frame.Columns)
		lines = append(lines, "Headers:", header, tabular.Rule("-", len(header)), "", "Data:")

		shown := min(len(frame.Rows), maxDisplayRows)
		for _, row := range frame.Rows[:shown] {
			lines = append(lines, tabular.JoinRow(row))
		}
		if len(frame.Rows) > shown {
			lines = append(lines, fmt.Sprintf("... (%d more rows)", len(frame.Rows)-shown))
		}

		if stats := NumericStats(frame); len(stats) > 0 {
			lines = append(lines, "", "Numeric Column Statistics:")
			for _, s := range stats {
				lines = append(lines, s.String())
			}
		}

		paragraphs = append(paragraphs,
			fmt.Sprintf("CSV file with %d rows and %d columns", len(frame.Rows), len(frame.Columns)),
			"Columns: "+strings.Join(frame.Columns, ", "),
		)
		described := min(len(frame.Rows), maxParagraphRows)
		for _, row := range frame.Rows[:described] {
			if desc := tabular.DescribeRow(frame.Columns, row); desc != "" {
				paragraphs = append(paragraphs, desc)
			}
		}
		if len(frame.Rows) > described {
			paragraphs = append(paragraphs, fmt.Sprintf("Additional %d rows available", len(frame.Rows)-described))
		}

		headings = append(headings, models.HeadingInfo{Level: 2, Text: "Data Columns"})
		for _, col := range frame.Columns {
			if strings.TrimSpace(col) != "" {
				headings = append(headings, models.HeadingInfo{Level: 3, Text: col})
			}
		}
		tables = append(tables, frame.Table())
	}

	return models.NewPageResult(1, models.PageContent{
		Text:       strings.Join(lines, "\n"),
		Paragraphs: paragraphs,
		Headings:   headings,
		Tables:     tables,
	})
}
