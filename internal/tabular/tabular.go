// Package tabular holds the rendering rules shared by the spreadsheet and
// delimited-text adapters.
package tabular

import (
	"fmt"
	"strings"

	"github.com/Epistemic-Technology/docparse/models"
)

const unnamedPrefix = "Unnamed"

// missingValues are the cell spellings read as "no value", the same set
// pandas uses by default.
var missingValues = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "-NaN": true, "-nan": true,
	"1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsMissing reports whether a raw cell value stands for a missing value.
// Matching is exact; " NA" is text.
func IsMissing(value string) bool {
	return value == "" || missingValues[value]
}

// Frame is a header row plus data rows, every row padded to the header
// width.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// NewFrame builds a Frame from raw records whose first record is the
// header. Blank header cells become "Unnamed: <index>", duplicate names get
// ".1", ".2" suffixes, and rows wider than the header widen it. Missing
// value tokens in data rows become empty cells; header names are kept
// as written.
func NewFrame(records [][]string) Frame {
	if len(records) == 0 {
		return Frame{}
	}

	width := 0
	for _, r := range records {
		width = max(width, len(r))
	}

	columns := NormalizeColumns(records[0], width)
	rows := make([][]string, 0, len(records)-1)
	for _, r := range records[1:] {
		row := PadRow(r, width)
		for i, v := range row {
			if IsMissing(v) {
				row[i] = ""
			}
		}
		rows = append(rows, row)
	}
	return Frame{Columns: columns, Rows: rows}
}

// Empty reports whether the frame has no data rows or no columns.
func (f Frame) Empty() bool {
	return len(f.Rows) == 0 || len(f.Columns) == 0
}

// Table converts the frame into a TableContent with the header first.
func (f Frame) Table() models.TableContent {
	rows := make([]models.TableRow, 0, len(f.Rows)+1)
	rows = append(rows, models.TableRow(append([]string(nil), f.Columns...)))
	for _, r := range f.Rows {
		rows = append(rows, models.TableRow(append([]string(nil), r...)))
	}
	return models.TableContent{Rows: rows}
}

// NormalizeColumns trims header names and fills blanks and duplicates.
func NormalizeColumns(header []string, width int) []string {
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := range width {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("%s: %d", unnamedPrefix, i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}

// PadRow returns a copy of row extended with empty cells to width.
func PadRow(row []string, width int) []string {
	out := make([]string, max(width, len(row)))
	copy(out, row)
	return out
}

// IsUnnamedColumn reports whether a column name is a placeholder generated
// for a blank header cell.
func IsUnnamedColumn(name string) bool {
	return strings.HasPrefix(name, unnamedPrefix)
}

// JoinRow renders cells separated by " | ".
func JoinRow(cells []string) string {
	return strings.Join(cells, " | ")
}

// Rule returns ch repeated n times.
func Rule(ch string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(ch, n)
}

// DescribeRow renders "column: value" pairs for the non-empty cells of row,
// joined by ", ". It returns "" when every cell is empty.
func DescribeRow(columns, row []string) string {
	parts := make([]string, 0, len(columns))
	for i, col := range columns {
		if i >= len(row) {
			break
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		parts = append(parts, col+": "+v)
	}
	return strings.Join(parts, ", ")
}
