package llm

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/models"
)

func getAPIKey(t *testing.T) string {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}
	return apiKey
}

func sampleDocument() *models.DocumentResult {
	return models.NewDocumentResult(models.DocumentInfo{Filename: "notes.docx", FileType: "docx"}, []models.PageResult{
		models.NewPageResult(1, models.PageContent{
			Text:     "Overview\nThe harvest doubled after the irrigation canal opened.",
			Headings: []models.HeadingInfo{{Level: 1, Text: "Overview"}, {Level: 2, Text: "Irrigation"}},
		}),
		models.NewPageResult(2, models.PageContent{Text: "Yields stayed high for a decade."}),
	})
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := BuildSummaryPrompt(sampleDocument())

	for _, want := range []string{
		"File: notes.docx (docx, 2 pages)",
		"Outline:\n- Overview\n  - Irrigation\n",
		"irrigation canal opened.\n\nYields stayed high",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.HasPrefix(prompt, "Summarize this document") {
		t.Error("prompt should start with the instructions")
	}
}

func TestBuildSummaryPromptTruncates(t *testing.T) {
	long := strings.Repeat("word ", maxSummaryRunes/5+100)
	doc := models.NewDocumentResult(models.DocumentInfo{Filename: "big.csv", FileType: "csv"},
		[]models.PageResult{models.NewPageResult(1, models.PageContent{Text: long})})

	prompt := BuildSummaryPrompt(doc)
	if len(prompt) > maxSummaryRunes+1000 {
		t.Errorf("prompt length %d exceeds cap", len(prompt))
	}
}

func TestSummarizeDocumentValidation(t *testing.T) {
	log := logger.NewNoOpLogger()
	ctx := context.Background()

	if _, err := SummarizeDocument(ctx, "", sampleDocument(), log); err == nil {
		t.Error("expected error without API key")
	}
	empty := models.NewDocumentResult(models.DocumentInfo{Filename: "e.pdf"}, []models.PageResult{
		models.NewPageResult(1, models.PageContent{Text: "   "}),
	})
	if _, err := SummarizeDocument(ctx, "key", empty, log); err == nil {
		t.Error("expected error for a document without text")
	}
}

func TestSummarizeDocument_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	apiKey := getAPIKey(t)

	summary, err := SummarizeDocument(context.Background(), apiKey, sampleDocument(), logger.NewNoOpLogger())
	if err != nil {
		t.Fatalf("SummarizeDocument failed: %v", err)
	}
	if strings.TrimSpace(summary) == "" {
		t.Error("expected a non-empty summary")
	}
}
