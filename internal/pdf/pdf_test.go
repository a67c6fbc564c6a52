package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
)

// buildTestPDF assembles a minimal single-font PDF with one content stream
// per page and a correct cross-reference table.
func buildTestPDF(pages []string) []byte {
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, content := range pages {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func textOp(y int, s string) string {
	return fmt.Sprintf("BT /F1 12 Tf 72 %d Td (%s) Tj ET", y, s)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseGeneratedPDF(t *testing.T) {
	page1 := strings.Join([]string{
		textOp(720, "INTRODUCTION"),
		textOp(700, "First line of the opening paragraph"),
		textOp(686, "continues here."),
		textOp(640, "A second paragraph starts lower."),
	}, "\n")
	page2 := "" // no text at all
	path := writeFile(t, "sample.pdf", buildTestPDF([]string{page1, page2}))

	pages, err := New(logger.NewNoOpLogger()).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}

	first := pages[0]
	if !strings.Contains(first.Content.Text, "INTRODUCTION") || !strings.Contains(first.Content.Text, "second paragraph") {
		t.Errorf("unexpected page text %q", first.Content.Text)
	}
	if len(first.Content.Headings) == 0 || first.Content.Headings[0].Text != "INTRODUCTION" {
		t.Errorf("expected INTRODUCTION heading, got %v", first.Content.Headings)
	}
	if first.Metadata.WordCount == 0 {
		t.Error("expected a non-zero word count")
	}

	second := pages[1]
	if second.PageNumber != 2 || second.Content.Text != "" || second.Metadata.WordCount != 0 {
		t.Errorf("textless page should be empty, got %+v", second)
	}
}

func TestParseCorruptedPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("definitely not a pdf"))

	_, err := New(logger.NewNoOpLogger()).Parse(context.Background(), path)
	if !errors.Is(err, parseerr.ErrCorruptedFile) {
		t.Fatalf("expected CorruptedFile, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		kind parseerr.Kind
	}{
		{errors.New("encrypted PDF: invalid password"), parseerr.PasswordProtected},
		{errors.New("Please provide the correct PASSWORD"), parseerr.PasswordProtected},
		{errors.New("xref table corrupt"), parseerr.CorruptedFile},
	}

	for _, tt := range tests {
		got := classifyError("x.pdf", tt.err)
		if parseerr.KindOf(got) != tt.kind {
			t.Errorf("classifyError(%v) kind = %v, want %v", tt.err, parseerr.KindOf(got), tt.kind)
		}
		if !errors.Is(got, tt.err) {
			t.Errorf("cause not preserved for %v", tt.err)
		}
	}
}

func TestClassifyHeading(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		level int
	}{
		{"INTRODUCTION", true, 1},
		{"Chapter 1: Getting Started", true, 1},
		{"Section 2.1 Methods", true, 3},
		{"1. Overview", true, 2},
		{"12. Results and discussion", true, 2},
		{"THE SECTION ON COSTS", true, 3},
		{"An ordinary sentence in the body.", false, 0},
		{"1999 was a year", false, 0},
		{"12345", false, 0},
		{"", false, 0},
		{strings.Repeat("A", 80), false, 0},
		{strings.Repeat("A", 79), true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h, ok := ClassifyHeading(tt.line)
			if ok != tt.ok || h.Level != tt.level {
				t.Errorf("ClassifyHeading(%q) = %+v, %v; want level %d, %v", tt.line, h, ok, tt.level, tt.ok)
			}
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("first\nstill first\n\n  \n\nsecond\n\n\n\nthird  ")
	want := []string{"first\nstill first", "second", "third"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("SplitParagraphs = %q, want %q", got, want)
	}
	if SplitParagraphs("   ") != nil {
		t.Error("whitespace-only text should have no paragraphs")
	}
}

func TestLinesToText(t *testing.T) {
	lines := []Line{
		{Y: 640, Pieces: []string{"new paragraph"}},
		{Y: 720, Pieces: []string{"Heading", "Text"}},
		{Y: 700, Pieces: []string{"H", "e", "l", "l", "o"}},
		{Y: 686, Pieces: []string{"next line "}},
	}

	got := LinesToText(lines)
	want := "Heading Text\nHello\nnext line\n\nnew paragraph"
	if got != want {
		t.Errorf("LinesToText = %q, want %q", got, want)
	}
	if LinesToText(nil) != "" {
		t.Error("no lines should give empty text")
	}
}

func TestBuildPage(t *testing.T) {
	page := BuildPage(4, "OVERVIEW\nSome body text.\n\n2. Details\nMore text.")

	if page.PageNumber != 4 {
		t.Errorf("PageNumber = %d", page.PageNumber)
	}
	if len(page.Content.Paragraphs) != 2 {
		t.Errorf("paragraphs = %q", page.Content.Paragraphs)
	}
	if len(page.Content.Headings) != 2 || page.Content.Headings[1].Level != 2 {
		t.Errorf("headings = %v", page.Content.Headings)
	}
	if page.Metadata.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", page.Metadata.WordCount)
	}
}
