// Package extract provides text extraction from PDF documents.
package extract

import (
	"fmt"
	"os"
)

// DocumentError reports that a document could not be opened or parsed.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("PDF processing failed: %v", e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Extractor extracts plain text from PDF files. It holds no state and never caches:
// every call re-reads the file.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the PDF at path and returns the text of all pages in document order,
// joined by a single space and trimmed. Any failure aborts the whole extraction and is
// returned as a *DocumentError.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", &DocumentError{Path: path, Err: fmt.Errorf("read file: %w", err)}
	}
	text, err := e.ExtractBytes(content)
	if err != nil {
		return "", &DocumentError{Path: path, Err: err}
	}
	return text, nil
}

// ExtractBytes extracts text from PDF content held in memory.
func (e *Extractor) ExtractBytes(content []byte) (string, error) {
	return extractPDF(content)
}
