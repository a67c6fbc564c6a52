package report

const summaryTemplate = `Document Summary
================
Filename: {{.DocumentInfo.Filename}}
Type: {{upper .DocumentInfo.FileType}}
Total Pages: {{.TotalPages}}
Total Words: {{.TotalWords}}
File Size: {{.DocumentInfo.FileSize}} bytes
Created: {{timestamp .DocumentInfo.CreatedAt}}
{{- with .AllHeadings}}

Table of Contents:
{{- range .}}
{{indent .Level}}{{.Level}}. {{.Text}}
{{- end}}
{{- end}}
{{- with .Page 1}}

First Page Preview:
{{truncate 200 .Content.Text}}
{{- end}}
`

const detailedReportTemplate = `# Document Analysis Report

## Document Information
- **Filename**: {{.DocumentInfo.Filename}}
- **Type**: {{upper .DocumentInfo.FileType}}
- **Pages**: {{.TotalPages}}
- **Total Words**: {{.TotalWords}}
- **Total Characters**: {{.TotalChars}}
- **File Size**: {{.DocumentInfo.FileSize}} bytes
- **Processed**: {{timestamp .DocumentInfo.CreatedAt}}

## Content Structure
{{- with .AllHeadings}}

### Headings Found
{{- range .}}
- Level {{.Level}}: {{.Text}}
{{- end}}
{{- end}}

## Page-by-Page Analysis
{{range .Pages}}
### Page {{.PageNumber}}
- **Word Count**: {{.Metadata.WordCount}}
- **Character Count**: {{.Metadata.CharCount}}
{{- with .Content.Headings}}

**Headings on this page**:
{{- range .}}
- {{.Text}}
{{- end}}
{{- end}}

**Content Preview**:
` + "```" + `
{{truncate 300 .Content.Text}}
` + "```" + `

---
{{end}}`

const jsonSummaryTemplate = `{
  "summary": {
    "filename": {{json .DocumentInfo.Filename}},
    "type": {{json .DocumentInfo.FileType}},
    "pages": {{.TotalPages}},
    "words": {{.TotalWords}},
    "characters": {{.TotalChars}},
    "size_bytes": {{.DocumentInfo.FileSize}}
  },
  "headings": [
    {{- range $i, $h := .AllHeadings}}{{if $i}},{{end}}
    {"level": {{$h.Level}}, "text": {{json $h.Text}}}
    {{- end}}
  ],
  "page_stats": [
    {{- range $i, $p := .Pages}}{{if $i}},{{end}}
    {"page": {{$p.PageNumber}}, "words": {{$p.Metadata.WordCount}}, "characters": {{$p.Metadata.CharCount}}}
    {{- end}}
  ]
}
`

var builtins = map[string]string{
	"summary":         summaryTemplate,
	"detailed_report": detailedReportTemplate,
	"json_summary":    jsonSummaryTemplate,
}
