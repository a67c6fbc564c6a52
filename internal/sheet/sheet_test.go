package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
)

// createTestWorkbook writes a workbook whose sheets are created in the
// given order.
func createTestWorkbook(t *testing.T, path string, sheets []string, data map[string][][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		for r, row := range data[name] {
			cell := fmt.Sprintf("A%d", r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
}

func TestSupports(t *testing.T) {
	a := New(logger.NewNoOpLogger())

	for _, p := range []string{"a.xlsx", "B.XLSX", "c.xls", "d.xlsm"} {
		if !a.Supports(p) {
			t.Errorf("expected %s to be supported", p)
		}
	}
	for _, p := range []string{"a.csv", "a.xlsx.bak", "a"} {
		if a.Supports(p) {
			t.Errorf("did not expect %s to be supported", p)
		}
	}
}

func TestParseSheetsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	createTestWorkbook(t, path, []string{"Summary", "Q1", "Q2"}, map[string][][]any{
		"Summary": {{"Region", "Total"}, {"North", 10}, {"South", 20}},
		"Q1":      {{"Month", "Sales"}, {"Jan", 5}},
		"Q2":      {{"Month", "Sales"}},
	})

	pages, err := New(logger.NewNoOpLogger()).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}

	names := []string{"Summary", "Q1", "Q2"}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			t.Errorf("page %d has number %d", i, p.PageNumber)
		}
		if p.Content.Headings[0].Level != 1 || p.Content.Headings[0].Text != "Sheet: "+names[i] {
			t.Errorf("page %d first heading = %+v", i, p.Content.Headings[0])
		}
	}

	summary := pages[0]
	wantText := "Sheet: Summary\n==============\n\nRegion | Total\n--------------\nNorth | 10\nSouth | 20"
	if summary.Content.Text != wantText {
		t.Errorf("text = %q, want %q", summary.Content.Text, wantText)
	}
	wantParas := []string{"Headers: Region | Total", "Region: North, Total: 10", "Region: South, Total: 20"}
	if strings.Join(summary.Content.Paragraphs, "\n") != strings.Join(wantParas, "\n") {
		t.Errorf("paragraphs = %q", summary.Content.Paragraphs)
	}
	if len(summary.Content.Tables) != 1 || len(summary.Content.Tables[0].Rows) != 3 {
		t.Errorf("unexpected tables %v", summary.Content.Tables)
	}

	q2 := pages[2]
	if !strings.HasSuffix(q2.Content.Text, "(Empty sheet)") {
		t.Errorf("header-only sheet should render as empty, got %q", q2.Content.Text)
	}
	if len(q2.Content.Paragraphs) != 0 || len(q2.Content.Headings) != 1 {
		t.Errorf("empty sheet should have no paragraphs and only the sheet heading")
	}
	if q2.Metadata.WordCount != len(strings.Fields(q2.Content.Text)) {
		t.Error("metadata should be derived from text")
	}
}

func TestBuildPageParagraphCap(t *testing.T) {
	records := [][]string{{"id", "value"}}
	for i := range 60 {
		records = append(records, []string{fmt.Sprint(i), "v"})
	}

	page := BuildPage(1, Sheet{Name: "Data", Records: records})

	// header paragraph + 50 rows + overflow note
	if len(page.Content.Paragraphs) != 52 {
		t.Fatalf("expected 52 paragraphs, got %d", len(page.Content.Paragraphs))
	}
	if last := page.Content.Paragraphs[51]; last != "... (10 more rows)" {
		t.Errorf("overflow paragraph = %q", last)
	}
	// the text rendering is not capped
	if got := strings.Count(page.Content.Text, "| v"); got != 60 {
		t.Errorf("expected all 60 rows in text, found %d", got)
	}
}

func TestBuildPageSkipsBlankRowsAndUnnamedColumns(t *testing.T) {
	page := BuildPage(1, Sheet{Name: "S", Records: [][]string{
		{"Name", "", "Score"},
		{"", " ", ""},
		{"Ann", "", "7"},
	}})

	want := []string{"Headers: Name | Unnamed: 1 | Score", "Name: Ann, Score: 7"}
	if strings.Join(page.Content.Paragraphs, "|") != strings.Join(want, "|") {
		t.Errorf("paragraphs = %q", page.Content.Paragraphs)
	}

	var level2 []string
	for _, h := range page.Content.Headings {
		if h.Level == 2 {
			level2 = append(level2, h.Text)
		}
	}
	if strings.Join(level2, ",") != "Name,Score" {
		t.Errorf("level-2 headings = %v", level2)
	}
	if !strings.Contains(page.Content.Text, "\n |   | \n") {
		t.Errorf("blank row should still render in text: %q", page.Content.Text)
	}
}

func TestParseCorruptedWorkbook(t *testing.T) {
	dir := t.TempDir()
	a := New(logger.NewNoOpLogger())

	for _, name := range []string{"broken.xlsx", "broken.xls"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte("this is not a workbook"), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := a.Parse(context.Background(), path)
			if !errors.Is(err, parseerr.ErrCorruptedFile) {
				t.Errorf("expected CorruptedFile, got %v", err)
			}
		})
	}
}

func TestParseSkipsLeadingBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offset.xlsx")

	f := excelize.NewFile()
	for cell, row := range map[string][]any{
		"B3": {"Name", "Age"},
		"B4": {"Ada", 36},
	} {
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	pages, err := New(logger.NewNoOpLogger()).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	content := pages[0].Content

	if !strings.Contains(content.Text, "\nUnnamed: 0 | Name | Age\n") {
		t.Errorf("header row should come from the first used row: %q", content.Text)
	}
	want := []string{"Headers: Unnamed: 0 | Name | Age", "Name: Ada, Age: 36"}
	if strings.Join(content.Paragraphs, "|") != strings.Join(want, "|") {
		t.Errorf("paragraphs = %q", content.Paragraphs)
	}
	var level2 []string
	for _, h := range content.Headings {
		if h.Level == 2 {
			level2 = append(level2, h.Text)
		}
	}
	if strings.Join(level2, ",") != "Name,Age" {
		t.Errorf("level-2 headings = %v", level2)
	}
}

func TestDropLeadingBlankRows(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    int
	}{
		{"none", [][]string{{"a"}, {""}}, 2},
		{"empty and whitespace rows", [][]string{{}, {"", " "}, {"a"}, {""}}, 2},
		{"all blank", [][]string{{}, {""}}, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dropLeadingBlankRows(tt.records)
			if len(got) != tt.want {
				t.Fatalf("got %d rows, want %d: %q", len(got), tt.want, got)
			}
			if len(got) > 0 && got[0][0] != "a" {
				t.Errorf("first kept row = %q", got[0])
			}
		})
	}
}
