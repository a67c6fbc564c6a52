package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Epistemic-Technology/docparse/models"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
)

// Paragraph is a non-empty body paragraph. HeadingLevel is 0 for ordinary
// paragraphs.
type Paragraph struct {
	Text         string
	Style        string
	HeadingLevel int
}

// Table is a body table and the index of the paragraph that follows it.
type Table struct {
	Position int
	Content  models.TableContent
}

// Document is the first-pass view of a DOCX body.
type Document struct {
	Paragraphs []Paragraph
	// Breaks are paragraph indices at which an explicit page break starts a
	// new page.
	Breaks []int
	Tables []Table
}

func readDocument(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile, stylesFile *zip.File
	for _, f := range r.File {
		switch f.Name {
		case documentPart:
			docFile = f
		case stylesPart:
			stylesFile = f
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("%s not found in archive", documentPart)
	}

	styles := map[string]string{}
	if stylesFile != nil {
		styles, err = readStyles(stylesFile)
		if err != nil {
			return nil, err
		}
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	return decodeBody(rc, styles)
}

type stylesXML struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// readStyles maps style ids to display names ("Heading1" -> "heading 1").
func readStyles(f *zip.File) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", stylesPart, err)
	}
	defer rc.Close()

	var parsed stylesXML
	if err := xml.NewDecoder(rc).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode %s: %w", stylesPart, err)
	}
	styles := make(map[string]string, len(parsed.Styles))
	for _, s := range parsed.Styles {
		if s.ID != "" && s.Name.Val != "" {
			styles[s.ID] = s.Name.Val
		}
	}
	return styles, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// bodyDecoder walks document.xml once. Paragraphs inside tables become cell
// text; nested tables are flattened into their outer cell. Text boxes and
// compatibility fallbacks are skipped.
type bodyDecoder struct {
	styles map[string]string
	doc    Document

	inText  bool
	inPPr   bool
	skip    int
	text    strings.Builder
	style   string
	breakAt []int // offsets into text where a page break occurred

	tableDepth int
	rows       []models.TableRow
	row        models.TableRow
	cell       []string
}

func decodeBody(r io.Reader, styles map[string]string) (*Document, error) {
	d := &bodyDecoder{styles: styles}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			d.start(t)
		case xml.EndElement:
			d.end(t)
		case xml.CharData:
			if d.inText && d.skip == 0 {
				d.text.Write(t)
			}
		}
	}
	return &d.doc, nil
}

func (d *bodyDecoder) start(t xml.StartElement) {
	switch t.Name.Local {
	case "Fallback", "txbxContent":
		d.skip++
	case "p":
		if d.skip > 0 {
			return
		}
		d.text.Reset()
		d.style = ""
		d.breakAt = nil
	case "pPr":
		d.inPPr = true
	case "pStyle":
		if d.inPPr {
			d.style = attr(t, "val")
		}
	case "t":
		d.inText = true
	case "tab":
		if !d.inPPr && d.skip == 0 {
			d.text.WriteString("\t")
		}
	case "br":
		if d.inPPr || d.skip > 0 {
			return
		}
		if attr(t, "type") == "page" {
			d.breakAt = append(d.breakAt, d.text.Len())
		} else {
			d.text.WriteString("\n")
		}
	case "cr":
		if d.skip == 0 {
			d.text.WriteString("\n")
		}
	case "tbl":
		d.tableDepth++
		if d.tableDepth == 1 {
			d.rows = nil
		}
	case "tr":
		if d.tableDepth == 1 {
			d.row = nil
		}
	case "tc":
		if d.tableDepth == 1 {
			d.cell = nil
		}
	}
}

func (d *bodyDecoder) end(t xml.EndElement) {
	switch t.Name.Local {
	case "Fallback", "txbxContent":
		d.skip--
	case "pPr":
		d.inPPr = false
	case "t":
		d.inText = false
	case "p":
		if d.skip > 0 {
			return
		}
		d.finishParagraph()
	case "tc":
		if d.tableDepth == 1 {
			d.row = append(d.row, strings.TrimSpace(strings.Join(d.cell, "\n")))
		}
	case "tr":
		if d.tableDepth == 1 {
			d.rows = append(d.rows, d.row)
		}
	case "tbl":
		if d.tableDepth == 1 {
			d.doc.Tables = append(d.doc.Tables, Table{
				Position: len(d.doc.Paragraphs),
				Content:  models.TableContent{Rows: d.rows},
			})
		}
		d.tableDepth--
	}
}

func (d *bodyDecoder) finishParagraph() {
	raw := d.text.String()
	text := strings.TrimSpace(raw)

	if d.tableDepth > 0 {
		if text != "" {
			d.cell = append(d.cell, text)
		}
		return
	}

	// A break preceded by text ends the page after this paragraph; a break
	// with no text before it starts the page at this paragraph.
	breakBefore, breakAfter := false, false
	for _, off := range d.breakAt {
		if strings.TrimSpace(raw[:off]) == "" {
			breakBefore = true
		} else {
			breakAfter = true
		}
	}

	if breakBefore {
		d.addBreak(len(d.doc.Paragraphs))
	}
	if text != "" {
		name := d.styleName(d.style)
		level, _ := HeadingLevel(name)
		d.doc.Paragraphs = append(d.doc.Paragraphs, Paragraph{Text: text, Style: name, HeadingLevel: level})
	}
	if breakAfter {
		d.addBreak(len(d.doc.Paragraphs))
	}
}

func (d *bodyDecoder) addBreak(pos int) {
	if n := len(d.doc.Breaks); n > 0 && d.doc.Breaks[n-1] == pos {
		return
	}
	d.doc.Breaks = append(d.doc.Breaks, pos)
}

func (d *bodyDecoder) styleName(id string) string {
	if name, ok := d.styles[id]; ok {
		return name
	}
	return id
}
