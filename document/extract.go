// Package document turns uploaded files into raw text for the chat.
//
// PDFs go through github.com/ledongthuc/pdf plain-text extraction; text
// formats are read as-is. Extracted text is not validated: a PDF with no
// text layer yields an empty Document, not an error.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"poassist/config"
)

// Document is the extracted text of one file.
type Document struct {
	Text       string
	SourceName string
}

// maxFileSize caps uploads so a stray path cannot pull a huge file into memory.
const maxFileSize = 20 << 20

var textExtensions = map[string]bool{
	".txt": true,
	".csv": true,
	".md":  true,
}

// Supported reports whether path has an extension Extract understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".pdf" || textExtensions[ext]
}

// Extract reads path and returns its text.
func Extract(path string) (Document, error) {
	path = config.ExpandPath(path)

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open document: %w", err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxFileSize {
		return Document{}, fmt.Errorf("document too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	var text string
	switch {
	case ext == ".pdf":
		text, err = extractPDF(path)
	case textExtensions[ext]:
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	default:
		return Document{}, fmt.Errorf("unsupported document type %q (supported: .pdf, .txt, .csv, .md)", ext)
	}
	if err != nil {
		return Document{}, err
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Document] Extracted %d chars from %s", len(text), name)
	}

	return Document{Text: text, SourceName: name}, nil
}

func extractPDF(path string) (text string, err error) {
	// The pdf package panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return buf.String(), nil
}
