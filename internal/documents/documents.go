package documents

import (
	"bytes"

	"github.com/Epistemic-Technology/docparse/models"
)

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DetectDocumentType determines the type of document from the raw data by
// checking magic bytes. It returns one of the models.FileType* tags or
// "unknown".
func DetectDocumentType(data []byte) string {
	if len(data) == 0 {
		return "unknown"
	}

	if len(data) < 4 {
		if isLikelyText(data) {
			return models.FileTypeCSV
		}
		return "unknown"
	}

	if bytes.HasPrefix(data, []byte("%PDF")) {
		return models.FileTypePDF
	}

	// Legacy Excel workbooks are OLE2 compound files.
	if bytes.HasPrefix(data, oleMagic) {
		return models.FileTypeXLS
	}

	// OOXML packages are ZIP files; the part names appear in the local file
	// headers near the start of the archive.
	if data[0] == 0x50 && data[1] == 0x4B && (data[2] == 0x03 || data[2] == 0x05 || data[2] == 0x07) {
		head := data[:min(len(data), 4096)]
		switch {
		case bytes.Contains(head, []byte("word/")):
			return models.FileTypeDOCX
		case bytes.Contains(head, []byte("xl/")):
			return models.FileTypeXLSX
		}
		return "zip"
	}

	if isLikelyText(data) {
		return models.FileTypeCSV
	}

	return "unknown"
}

// isLikelyText checks if the data is likely plain text (no binary content)
func isLikelyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sample := data[:min(len(data), 512)]

	if bytes.Contains(sample, []byte{0}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		if (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80 {
			printable++
		}
	}

	return float64(printable)/float64(len(sample)) > 0.9
}
