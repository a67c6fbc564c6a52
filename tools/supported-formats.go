package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/docparse/internal/report"
)

type SupportedFormatsQuery struct{}

type SupportedFormatsResponse struct {
	Extensions       []string `json:"extensions"`
	BuiltinTemplates []string `json:"builtin_templates"`
}

// ExtensionLister is satisfied by the document dispatcher.
type ExtensionLister interface {
	SupportedExtensions() []string
}

func SupportedFormatsTool() *mcp.Tool {
	inputschema, err := jsonschema.For[SupportedFormatsQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "supported-formats",
		Description: "List the file extensions document-parse accepts and the builtin report templates document-render offers.",
		InputSchema: inputschema,
	}
}

func SupportedFormatsToolHandler(ctx context.Context, req *mcp.CallToolRequest, query SupportedFormatsQuery, parser ExtensionLister) (*mcp.CallToolResult, *SupportedFormatsResponse, error) {
	return nil, &SupportedFormatsResponse{
		Extensions:       parser.SupportedExtensions(),
		BuiltinTemplates: report.BuiltinNames(),
	}, nil
}
