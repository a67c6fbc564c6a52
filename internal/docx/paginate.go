package docx

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// DefaultWordsPerPage is the greedy page budget used when a document has no
// explicit page breaks.
const DefaultWordsPerPage = 500

// Span is a half-open range of paragraph indices forming one page.
type Span struct {
	Start, End int
}

// Paginate groups paragraphs into pages. Explicit breaks, when present,
// partition the sequence and empty groups are dropped. Otherwise paragraphs
// are accumulated until adding the next one would exceed wordsPerPage; a
// single paragraph larger than the budget still gets its own page, unsplit.
// Zero paragraphs yield no spans.
func Paginate(paragraphs []string, breaks []int, wordsPerPage int) []Span {
	if len(paragraphs) == 0 {
		return nil
	}
	if len(breaks) > 0 {
		return splitAtBreaks(len(paragraphs), breaks)
	}
	if wordsPerPage <= 0 {
		wordsPerPage = DefaultWordsPerPage
	}

	var spans []Span
	start, words := 0, 0
	for i, p := range paragraphs {
		n := len(strings.Fields(p))
		if words+n > wordsPerPage && i > start {
			spans = append(spans, Span{start, i})
			start, words = i, 0
		}
		words += n
	}
	return append(spans, Span{start, len(paragraphs)})
}

func splitAtBreaks(n int, breaks []int) []Span {
	positions := append([]int(nil), breaks...)
	sort.Ints(positions)

	var spans []Span
	start := 0
	for _, pos := range positions {
		if pos <= start || pos >= n {
			continue
		}
		spans = append(spans, Span{start, pos})
		start = pos
	}
	return append(spans, Span{start, n})
}

// HeadingLevel reports whether a paragraph style name denotes a heading and
// at which level. Names starting with "Heading" (any case) are headings; the
// level is the trailing number ("heading 2", "Heading2") or 1 when there is
// none.
func HeadingLevel(styleName string) (int, bool) {
	name := strings.TrimSpace(styleName)
	if !strings.HasPrefix(strings.ToLower(name), "heading") {
		return 0, false
	}

	end := len(name)
	start := end
	for start > 0 && unicode.IsDigit(rune(name[start-1])) {
		start--
	}
	if start < end {
		if level, err := strconv.Atoi(name[start:end]); err == nil && level > 0 {
			return level, true
		}
	}
	return 1, true
}
