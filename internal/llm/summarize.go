// Package llm produces natural-language summaries of parse results.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/models"
)

// maxSummaryRunes caps how much document text goes into one request.
const maxSummaryRunes = 200000

const summaryInstructions = `Summarize this document into 1-3 paragraphs. It should be coherent, concise and accurately reflect the original content. Write expository prose, not point form.

`

// BuildSummaryPrompt assembles the request text: instructions, a short
// description of the file and its outline, then the page text.
func BuildSummaryPrompt(doc *models.DocumentResult) string {
	var b strings.Builder
	b.WriteString(summaryInstructions)
	fmt.Fprintf(&b, "File: %s (%s, %d pages)\n", doc.DocumentInfo.Filename, doc.DocumentInfo.FileType, doc.TotalPages())

	if headings := doc.AllHeadings(); len(headings) > 0 {
		b.WriteString("Outline:\n")
		for _, h := range headings {
			fmt.Fprintf(&b, "%s- %s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
		}
	}
	b.WriteString("\n")

	text := doc.AllText()
	if utf8.RuneCountInString(text) > maxSummaryRunes {
		text = string([]rune(text)[:maxSummaryRunes])
	}
	b.WriteString(text)
	return b.String()
}

// estimateTokens uses the usual four characters per token.
func estimateTokens(prompt string) int {
	return len(prompt)/4 + 1
}

// SummarizeDocument asks the model for a prose summary of a parsed
// document.
func SummarizeDocument(ctx context.Context, apiKey string, doc *models.DocumentResult, log logger.Logger) (string, error) {
	if apiKey == "" {
		return "", errors.New("OpenAI API key is required")
	}
	if doc == nil || strings.TrimSpace(doc.AllText()) == "" {
		return "", errors.New("document has no text to summarize")
	}

	log.Info("Generating summary for document: %s", doc.DocumentInfo.Filename)
	prompt := BuildSummaryPrompt(doc)
	log.Debug("Calling OpenAI API for summarization (prompt length: %d chars)", len(prompt))

	client := openai.NewClient(option.WithAPIKey(apiKey))
	summary, err := RateLimitedCall(ctx, estimateTokens(prompt), log, func(ctx context.Context) (string, error) {
		response, err := client.Responses.New(ctx, responses.ResponseNewParams{
			Model: shared.ChatModelGPT5Mini,
			Input: responses.ResponseNewParamsInputUnion{
				OfInputItemList: responses.ResponseInputParam{
					responses.ResponseInputItemParamOfMessage(
						responses.ResponseInputMessageContentListParam{
							responses.ResponseInputContentParamOfInputText(prompt),
						},
						"user",
					),
				},
			},
		})
		if err != nil {
			return "", err
		}
		return response.OutputText(), nil
	})
	if err != nil {
		log.Error("Failed to generate summary: %v", err)
		return "", fmt.Errorf("failed to summarize %s: %w", doc.DocumentInfo.Filename, err)
	}

	log.Info("Successfully generated summary")
	return summary, nil
}
