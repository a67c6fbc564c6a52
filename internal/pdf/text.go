package pdf

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Epistemic-Technology/docparse/models"
)

const (
	maxHeadingRunes = 80
	// paragraphGapFactor is how much larger than the typical line gap a
	// vertical gap must be to start a new paragraph.
	paragraphGapFactor = 1.5
)

var numericDotPrefix = regexp.MustCompile(`^\d+\.`)

// Line is one row of text on a page; Y grows upward as in PDF space.
type Line struct {
	Y      float64
	Pieces []string
}

// LinesToText joins rows top to bottom. A blank line is inserted where the
// gap to the previous row is clearly larger than the median gap.
func LinesToText(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}
	sorted := append([]Line(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i-1].Y-sorted[i].Y)
	}
	threshold := 0.0
	if len(gaps) > 1 {
		ordered := append([]float64(nil), gaps...)
		sort.Float64s(ordered)
		threshold = ordered[(len(ordered)-1)/2] * paragraphGapFactor
	}

	var b strings.Builder
	for i, line := range sorted {
		text := strings.TrimRightFunc(joinPieces(line.Pieces), unicode.IsSpace)
		if i > 0 {
			b.WriteString("\n")
			if threshold > 0 && gaps[i-1] > threshold {
				b.WriteString("\n")
			}
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String())
}

// joinPieces concatenates the text runs of a row. Multi-character runs that
// touch without whitespace are separated by a space; single glyphs are
// glued together.
func joinPieces(pieces []string) string {
	var b strings.Builder
	prev := ""
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if prev != "" && needsSpace(prev, p) {
			b.WriteString(" ")
		}
		b.WriteString(p)
		prev = p
	}
	return b.String()
}

func needsSpace(prev, next string) bool {
	if utf8.RuneCountInString(prev) < 2 || utf8.RuneCountInString(next) < 2 {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev)
	first, _ := utf8.DecodeRuneInString(next)
	return !unicode.IsSpace(last) && !unicode.IsSpace(first)
}

// SplitParagraphs splits page text on blank lines, dropping empty pieces.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ClassifyHeading decides whether a single line is a heading. Short lines
// that are all upper case or start with "Chapter", "Section" or a numeric
// prefix like "1." qualify. Numeric prefixes are level 2, lines mentioning
// "section" level 3, everything else level 1.
func ClassifyHeading(line string) (models.HeadingInfo, bool) {
	line = strings.TrimSpace(line)
	if line == "" || utf8.RuneCountInString(line) >= maxHeadingRunes {
		return models.HeadingInfo{}, false
	}

	numeric := numericDotPrefix.MatchString(line)
	if !isUpper(line) && !numeric &&
		!strings.HasPrefix(line, "Chapter") && !strings.HasPrefix(line, "Section") {
		return models.HeadingInfo{}, false
	}

	level := 1
	switch {
	case numeric:
		level = 2
	case strings.Contains(strings.ToLower(line), "section"):
		level = 3
	}
	return models.HeadingInfo{Level: level, Text: line}, true
}

// isUpper is true when s has at least one cased letter and no lower-case
// ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// BuildPage derives paragraphs and headings from one page's text.
func BuildPage(number int, text string) models.PageResult {
	var headings []models.HeadingInfo
	for _, line := range strings.Split(text, "\n") {
		if h, ok := ClassifyHeading(line); ok {
			headings = append(headings, h)
		}
	}
	return models.NewPageResult(number, models.PageContent{
		Text:       text,
		Paragraphs: SplitParagraphs(text),
		Headings:   headings,
	})
}
