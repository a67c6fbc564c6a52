package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/models"
)

func sampleDocument() *models.DocumentResult {
	return models.NewDocumentResult(models.DocumentInfo{
		Filename:  "report.pdf",
		FileType:  "pdf",
		CreatedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		FileSize:  2048,
	}, []models.PageResult{
		models.NewPageResult(1, models.PageContent{
			Text:     "INTRODUCTION\nQuote \"here\" and more words",
			Headings: []models.HeadingInfo{{Level: 1, Text: "INTRODUCTION"}},
		}),
		models.NewPageResult(2, models.PageContent{
			Text:     "1. Details\n" + strings.Repeat("x", 400),
			Headings: []models.HeadingInfo{{Level: 2, Text: "1. Details"}},
		}),
	})
}

func newRenderer(dir string) *Renderer {
	return NewRenderer(dir, logger.NewNoOpLogger())
}

func TestRenderString(t *testing.T) {
	out, err := newRenderer("").RenderString(
		`{{.DocumentInfo.Filename}} has {{.TotalPages}} pages by {{.Extra.author}}; L2={{range .HeadingsByLevel 2}}{{.Text}}{{end}}`,
		sampleDocument(), map[string]any{"author": "Ada"})
	if err != nil {
		t.Fatalf("RenderString failed: %v", err)
	}
	want := "report.pdf has 2 pages by Ada; L2=1. Details"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenderStringErrors(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
	}{
		{"parse error", "{{.DocumentInfo.Filename"},
		{"unknown field", "{{.Nope}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRenderer("").RenderString(tt.tpl, sampleDocument(), nil)
			if !errors.Is(err, parseerr.ErrInvalidConfiguration) {
				t.Errorf("expected InvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestBuiltins(t *testing.T) {
	r := newRenderer("")
	doc := sampleDocument()

	summary, err := r.RenderBuiltin("summary", doc, nil)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"Filename: report.pdf", "Type: PDF", "Total Pages: 2", "Table of Contents:", "1. INTRODUCTION", "  2. 1. Details", "First Page Preview:", "Created: 2024-05-06T07:08:09Z"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	detailed, err := r.RenderBuiltin("detailed_report", doc, nil)
	if err != nil {
		t.Fatalf("detailed_report failed: %v", err)
	}
	for _, want := range []string{"# Document Analysis Report", "### Page 2", "- Level 2: 1. Details", strings.Repeat("x", 289) + "..."} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed_report missing %q", want)
		}
	}

	js, err := r.RenderBuiltin("json_summary", doc, nil)
	if err != nil {
		t.Fatalf("json_summary failed: %v", err)
	}
	var parsed struct {
		Summary struct {
			Filename string `json:"filename"`
			Pages    int    `json:"pages"`
		} `json:"summary"`
		Headings  []models.HeadingInfo `json:"headings"`
		PageStats []map[string]int     `json:"page_stats"`
	}
	if err := json.Unmarshal([]byte(js), &parsed); err != nil {
		t.Fatalf("json_summary is not valid JSON: %v\n%s", err, js)
	}
	if parsed.Summary.Filename != "report.pdf" || parsed.Summary.Pages != 2 || len(parsed.Headings) != 2 || len(parsed.PageStats) != 2 {
		t.Errorf("unexpected json summary %+v", parsed)
	}

	if _, err := r.RenderBuiltin("nope", doc, nil); !errors.Is(err, parseerr.ErrInvalidConfiguration) {
		t.Errorf("unknown builtin should be InvalidConfiguration, got %v", err)
	}
}

func TestBuiltinsOnEmptyDocument(t *testing.T) {
	doc := models.NewDocumentResult(models.DocumentInfo{Filename: "empty.csv", FileType: "csv"}, nil)
	r := newRenderer("")
	for _, name := range BuiltinNames() {
		if _, err := r.RenderBuiltin(name, doc, nil); err != nil {
			t.Errorf("%s failed on empty document: %v", name, err)
		}
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "title.tmpl"), []byte("Title: {{.DocumentInfo.Filename}}"), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	r := newRenderer(dir)

	out, err := r.RenderFile("title.tmpl", sampleDocument(), nil)
	if err != nil || out != "Title: report.pdf" {
		t.Errorf("RenderFile = %q, %v", out, err)
	}

	for _, name := range []string{"missing.tmpl", "../outside.tmpl"} {
		if _, err := r.RenderFile(name, sampleDocument(), nil); !errors.Is(err, parseerr.ErrInvalidConfiguration) {
			t.Errorf("RenderFile(%q) should be InvalidConfiguration, got %v", name, err)
		}
	}

	if _, err := newRenderer("").RenderFile("title.tmpl", sampleDocument(), nil); !errors.Is(err, parseerr.ErrInvalidConfiguration) {
		t.Errorf("no template dir should be InvalidConfiguration, got %v", err)
	}
}

func TestRenderMultiple(t *testing.T) {
	results := newRenderer("").RenderMultiple([]TemplateDef{
		{Name: "name", String: "{{.DocumentInfo.Filename}}"},
		{Name: "broken", String: "{{.Nope}}"},
		{Name: "summary", Builtin: "summary"},
		{Name: "", String: "skipped"},
		{Name: "empty"},
	}, sampleDocument(), nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %v", results)
	}
	if results["name"] != "report.pdf" {
		t.Errorf("name = %q", results["name"])
	}
	if !strings.HasPrefix(results["broken"], "Error: ") {
		t.Errorf("broken = %q", results["broken"])
	}
	if !strings.HasPrefix(results["summary"], "Document Summary") {
		t.Errorf("summary = %q", results["summary"])
	}
}

func TestSaveRendered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "report.md")
	if err := SaveRendered(path, "hello"); err != nil {
		t.Fatalf("SaveRendered failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("read back %q, %v", data, err)
	}
}

func TestTruncate(t *testing.T) {
	if truncate(3, "abc") != "abc" || truncate(2, "héllo") != "hé..." {
		t.Errorf("truncate mismatch: %q %q", truncate(3, "abc"), truncate(2, "héllo"))
	}
}
