package delimited

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Epistemic-Technology/docparse/internal/tabular"
)

type textEncoding struct {
	name   string
	decode func([]byte) ([]byte, error)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodings are tried in order; latin-1 accepts any byte sequence, so the
// later entries only matter if it is removed.
var encodings = []textEncoding{
	{"utf-8", decodeUTF8},
	{"latin-1", decodeCharmap(charmap.ISO8859_1)},
	{"cp1252", decodeCharmap(charmap.Windows1252)},
	{"iso-8859-1", decodeCharmap(charmap.ISO8859_1)},
}

var delimiters = []rune{',', ';', '\t', '|'}

var errNoColumns = errors.New("no columns to parse from file")

func decodeUTF8(data []byte) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("invalid utf-8 byte sequence")
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

// decodeCharmap builds a fresh decoder per call; decoders carry state and
// adapters are shared across goroutines.
func decodeCharmap(cm *charmap.Charmap) func([]byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		return cm.NewDecoder().Bytes(data)
	}
}

// readFrame runs the encoding x delimiter cascade and returns the first
// frame with more than one column or at least one data row. When nothing
// qualifies it falls back to a plain comma read of the raw bytes.
func readFrame(data []byte) (tabular.Frame, string, rune, error) {
	for _, enc := range encodings {
		decoded, err := enc.decode(data)
		if err != nil {
			continue
		}
		for _, delim := range delimiters {
			frame, err := parseFrame(decoded, delim)
			if err != nil {
				continue
			}
			if len(frame.Columns) > 1 || len(frame.Rows) > 0 {
				return frame, enc.name, delim, nil
			}
		}
	}

	frame, err := parseFrame(data, ',')
	if err != nil {
		return tabular.Frame{}, "", 0, err
	}
	return frame, "default", ',', nil
}

func parseFrame(data []byte, delim rune) (tabular.Frame, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return tabular.Frame{}, fmt.Errorf("delimiter %q: %w", delim, err)
	}
	if len(records) == 0 {
		return tabular.Frame{}, errNoColumns
	}
	return tabular.NewFrame(records), nil
}
