package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToJSON serializes the result; pretty selects two-space indentation.
func (d *DocumentResult) ToJSON(pretty bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(d, "", "  ")
	} else {
		data, err = json.Marshal(d)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal document result: %w", err)
	}
	return string(data), nil
}

// SaveToFile writes the JSON form of the result to path, creating parent
// directories as needed.
func (d *DocumentResult) SaveToFile(path string, pretty bool) error {
	out, err := d.ToJSON(pretty)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (d *DocumentResult) TotalPages() int {
	return len(d.Pages)
}

func (d *DocumentResult) TotalWords() int {
	total := 0
	for _, p := range d.Pages {
		total += p.Metadata.WordCount
	}
	return total
}

func (d *DocumentResult) TotalChars() int {
	total := 0
	for _, p := range d.Pages {
		total += p.Metadata.CharCount
	}
	return total
}

// AllText joins every page's text with a blank line.
func (d *DocumentResult) AllText() string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Content.Text
	}
	return strings.Join(texts, "\n\n")
}

func (d *DocumentResult) AllParagraphs() []string {
	var out []string
	for _, p := range d.Pages {
		out = append(out, p.Content.Paragraphs...)
	}
	return out
}

func (d *DocumentResult) AllHeadings() []HeadingInfo {
	var out []HeadingInfo
	for _, p := range d.Pages {
		out = append(out, p.Content.Headings...)
	}
	return out
}

func (d *DocumentResult) AllTables() []TableContent {
	var out []TableContent
	for _, p := range d.Pages {
		out = append(out, p.Content.Tables...)
	}
	return out
}

// Page returns the 1-based page n, or nil when n is out of range.
func (d *DocumentResult) Page(n int) *PageResult {
	if n < 1 || n > len(d.Pages) {
		return nil
	}
	return &d.Pages[n-1]
}

func (d *DocumentResult) HeadingsByLevel(level int) []HeadingInfo {
	var out []HeadingInfo
	for _, h := range d.AllHeadings() {
		if h.Level == level {
			out = append(out, h)
		}
	}
	return out
}

// PagesInWordRange returns pages whose word count lies in [min, max].
func (d *DocumentResult) PagesInWordRange(min, max int) []PageResult {
	var out []PageResult
	for _, p := range d.Pages {
		if p.Metadata.WordCount >= min && p.Metadata.WordCount <= max {
			out = append(out, p)
		}
	}
	return out
}
