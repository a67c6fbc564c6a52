package documents

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestDetectDocumentType(t *testing.T) {
	docx, err := createTestZip(map[string]string{"word/document.xml": "<w:document/>"})
	if err != nil {
		t.Fatalf("Failed to create docx zip: %v", err)
	}
	xlsx, err := createTestZip(map[string]string{"xl/workbook.xml": "<workbook/>"})
	if err != nil {
		t.Fatalf("Failed to create xlsx zip: %v", err)
	}
	plain, err := createTestZip(map[string]string{"notes.txt": "hello"})
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "PDF document",
			data:     []byte("%PDF-1.4\nsome pdf content"),
			expected: "pdf",
		},
		{
			name:     "DOCX package",
			data:     docx,
			expected: "docx",
		},
		{
			name:     "XLSX package",
			data:     xlsx,
			expected: "xlsx",
		},
		{
			name:     "ZIP file (not OOXML)",
			data:     plain,
			expected: "zip",
		},
		{
			name:     "Legacy workbook",
			data:     append(append([]byte{}, oleMagic...), make([]byte, 32)...),
			expected: "xls",
		},
		{
			name:     "Comma separated text",
			data:     []byte("name,age\nalice,30\n"),
			expected: "csv",
		},
		{
			name:     "Binary data",
			data:     []byte{0x00, 0x01, 0x02, 0xFF, 0xFE},
			expected: "unknown",
		},
		{
			name:     "Empty data",
			data:     []byte{},
			expected: "unknown",
		},
		{
			name:     "Very short data",
			data:     []byte("ab"),
			expected: "csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectDocumentType(tt.data)
			if result != tt.expected {
				t.Errorf("DetectDocumentType() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestIsLikelyText(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{
			name:     "Plain text",
			data:     []byte("This is plain text with spaces and punctuation!"),
			expected: true,
		},
		{
			name:     "Text with tabs",
			data:     []byte("Column1\tColumn2\tColumn3"),
			expected: true,
		},
		{
			name:     "Latin-1 accents",
			data:     []byte{'c', 'a', 'f', 0xE9, ',', '1', '\n'},
			expected: true,
		},
		{
			name:     "Binary with null byte",
			data:     []byte{0x48, 0x65, 0x6C, 0x6C, 0x6F, 0x00, 0x57, 0x6F, 0x72, 0x6C, 0x64},
			expected: false,
		},
		{
			name:     "Mixed text and non-printable (but mostly text)",
			data:     append([]byte("This is mostly text "), []byte{0x7F, 0x1B}...),
			expected: true,
		},
		{
			name:     "Empty data",
			data:     []byte{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isLikelyText(tt.data)
			if result != tt.expected {
				t.Errorf("isLikelyText() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// createTestZip creates a ZIP archive with the given files for testing
func createTestZip(files map[string]string) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	for filename, content := range files {
		f, err := w.Create(filename)
		if err != nil {
			return nil, err
		}
		_, err = f.Write([]byte(content))
		if err != nil {
			return nil, err
		}
	}

	err := w.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
