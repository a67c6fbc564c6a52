package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// File type tags carried in DocumentInfo.FileType.
const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
	FileTypeXLSX = "xlsx"
	FileTypeXLS  = "xls"
	FileTypeCSV  = "csv"
)

type DocumentInfo struct {
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	TotalPages int       `json:"total_pages"`
	CreatedAt  time.Time `json:"created_at"`
	FileSize   int64     `json:"file_size"`
}

type HeadingInfo struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type TableCell = string

type TableRow []TableCell

type TableContent struct {
	Rows []TableRow `json:"rows"`
}

type PageContent struct {
	Text       string         `json:"text"`
	Paragraphs []string       `json:"paragraphs"`
	Headings   []HeadingInfo  `json:"headings"`
	Tables     []TableContent `json:"tables"`
}

type PageMetadata struct {
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
}

type PageResult struct {
	PageNumber int          `json:"page_number"`
	Content    PageContent  `json:"content"`
	Metadata   PageMetadata `json:"metadata"`
}

type DocumentResult struct {
	DocumentInfo DocumentInfo `json:"document_info"`
	Pages        []PageResult `json:"pages"`
}

// CalculateMetadata derives page statistics from text: words are runs of
// non-whitespace, characters are counted as code points.
func CalculateMetadata(text string) PageMetadata {
	return PageMetadata{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
}

// NewPageResult is the only way adapters build pages, so metadata always
// matches the page text.
func NewPageResult(pageNumber int, content PageContent) PageResult {
	if content.Paragraphs == nil {
		content.Paragraphs = []string{}
	}
	if content.Headings == nil {
		content.Headings = []HeadingInfo{}
	}
	if content.Tables == nil {
		content.Tables = []TableContent{}
	}
	return PageResult{
		PageNumber: pageNumber,
		Content:    content,
		Metadata:   CalculateMetadata(content.Text),
	}
}

// NewDocumentResult renumbers pages densely from 1 and pins TotalPages to
// the page count.
func NewDocumentResult(info DocumentInfo, pages []PageResult) *DocumentResult {
	if pages == nil {
		pages = []PageResult{}
	}
	for i := range pages {
		pages[i].PageNumber = i + 1
	}
	info.TotalPages = len(pages)
	return &DocumentResult{DocumentInfo: info, Pages: pages}
}

// SourceInfo describes where a remote document came from.
type SourceInfo struct {
	ZoteroID string `json:"zotero_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Path     string `json:"path,omitempty"`
}

// DocumentData is fetched document content with its sniffed type.
type DocumentData struct {
	Data []byte
	Type string
}

// StoredDocument summarizes a persisted parse result.
type StoredDocument struct {
	DocumentID string       `json:"document_id"`
	Info       DocumentInfo `json:"document_info"`
	SourceInfo SourceInfo   `json:"source_info,omitempty"`
}

// BatchFailure records one input of a batch parse that did not produce a
// result.
type BatchFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
	Err   error  `json:"-"`
}

// BatchResult holds the outcome of parsing several files. Results keep the
// relative order of their inputs.
type BatchResult struct {
	Results  []*DocumentResult `json:"results"`
	Failures []BatchFailure    `json:"failures"`
}
