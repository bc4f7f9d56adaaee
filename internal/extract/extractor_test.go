package extract

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/pdfqa/test/fixtures"
)

func TestExtractBytes_singlePage(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(fixtures.MinimalPDF("The spawn rate is 5 percent of substrate weight"))
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if !strings.Contains(got, "spawn rate") {
		t.Errorf("got %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Errorf("result should be trimmed: %q", got)
	}
}

func TestExtractBytes_pagesInOrder(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(fixtures.MinimalPDF("First page", "Second page", "Third page"))
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	first := strings.Index(got, "First page")
	second := strings.Index(got, "Second page")
	third := strings.Index(got, "Third page")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing page text: %q", got)
	}
	if !(first < second && second < third) {
		t.Errorf("pages out of order: %q", got)
	}
	want := []string{"First", "page", "Second", "page", "Third", "page"}
	if !reflect.DeepEqual(strings.Fields(got), want) {
		t.Errorf("words = %q, want %q", strings.Fields(got), want)
	}
	if !strings.Contains(got, "First page ") || got != strings.TrimSpace(got) {
		t.Errorf("pages should be joined by a space and the result trimmed: %q", got)
	}
}

func TestExtractBytes_notPDF(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("just some text")); err == nil {
		t.Error("expected error for non-PDF content")
	}
}

func TestExtractBytes_truncatedPDF(t *testing.T) {
	content := fixtures.MinimalPDF("Cut short")
	e := NewExtractor()
	if _, err := e.ExtractBytes(content[:len(content)/2]); err == nil {
		t.Error("expected error for truncated PDF")
	}
}

func TestExtract_file(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.pdf")
	if err := fixtures.WritePDF(path, "Oyster mushrooms fruit in 2 weeks"); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(got, "Oyster mushrooms") {
		t.Errorf("got %q", got)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("/nonexistent/path/file.pdf")
	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected *DocumentError, got %T (%v)", err, err)
	}
	if docErr.Path != "/nonexistent/path/file.pdf" {
		t.Errorf("path = %q", docErr.Path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("DocumentError should unwrap to the underlying open error")
	}
}

func TestExtract_corruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\ngarbage"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	_, err := e.Extract(path)
	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected *DocumentError, got %T (%v)", err, err)
	}
	if !strings.HasPrefix(err.Error(), "PDF processing failed") {
		t.Errorf("message = %q", err.Error())
	}
}
