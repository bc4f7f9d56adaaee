package answer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/pdfqa/internal/extract"
	"github.com/hyperjump/pdfqa/internal/qa"
	"github.com/hyperjump/pdfqa/test/fixtures"
	"go.uber.org/zap"
)

// recordingEngine answers with the whole passage and remembers what it was given.
type recordingEngine struct {
	question string
	passage  string
	calls    int
	err      error
}

func (e *recordingEngine) Infer(_ context.Context, question, passage string) (*qa.Answer, error) {
	e.calls++
	e.question, e.passage = question, passage
	if e.err != nil {
		return nil, e.err
	}
	return &qa.Answer{Text: passage, Score: 0.5, End: len(passage)}, nil
}

func (e *recordingEngine) Name() string { return "recording" }
func (e *recordingEngine) Close() error { return nil }

func newTestService(engine qa.Engine, opts ...ServiceOption) *Service {
	opts = append(opts, WithLogger(zap.NewNop()))
	return NewService(extract.NewExtractor(), engine, opts...)
}

func TestAnswer_directContext(t *testing.T) {
	engine := &recordingEngine{}
	s := newTestService(engine)
	res, err := s.Answer(context.Background(), Request{Question: "What temperature?", Context: "Grow at 20 degrees."})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if engine.passage != "Grow at 20 degrees." || engine.question != "What temperature?" {
		t.Errorf("engine got question=%q passage=%q", engine.question, engine.passage)
	}
	if res.Source != SourceContext || res.Truncated {
		t.Errorf("result = %+v", res)
	}
	if res.Score != 0.5 {
		t.Errorf("score should pass through unchanged, got %v", res.Score)
	}
}

func TestAnswer_truncatesToPrefix(t *testing.T) {
	engine := &recordingEngine{}
	s := newTestService(engine)
	long := strings.Repeat("abcdefghij", 600) // 6000 characters
	res, err := s.Answer(context.Background(), Request{Question: "q?", Context: long})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if engine.passage != long[:5000] {
		t.Errorf("engine got %d bytes, want the first 5000", len(engine.passage))
	}
	if !res.Truncated || res.ContextLength != 5000 {
		t.Errorf("result = %+v", res)
	}
}

func TestAnswer_truncationLimits(t *testing.T) {
	tests := []struct {
		name       string
		serviceMax int
		requestMax int
		context    string
		want       string
	}{
		{"request limit wins", 100, 4, "abcdefgh", "abcd"},
		{"service limit", 3, 0, "abcdefgh", "abc"},
		{"shorter than limit", 100, 0, "abc", "abc"},
		{"multibyte characters", 100, 3, "ñandú rojo", "ñan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &recordingEngine{}
			s := newTestService(engine, WithMaxContextLength(tt.serviceMax))
			_, err := s.Answer(context.Background(), Request{Question: "q", Context: tt.context, MaxContextLength: tt.requestMax})
			if err != nil {
				t.Fatal(err)
			}
			if engine.passage != tt.want {
				t.Errorf("passage = %q, want %q", engine.passage, tt.want)
			}
		})
	}
}

func TestAnswer_missingContextAndPath(t *testing.T) {
	engine := &recordingEngine{}
	s := newTestService(engine)
	_, err := s.Answer(context.Background(), Request{Question: "anything?"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "either context or pdf_path must be provided") {
		t.Errorf("message = %q", err.Error())
	}
	if engine.calls != 0 {
		t.Error("engine should not be called")
	}
}

func TestAnswer_emptyQuestion(t *testing.T) {
	s := newTestService(&recordingEngine{})
	_, err := s.Answer(context.Background(), Request{Question: "  ", Context: "text"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestAnswer_pdfNotFound(t *testing.T) {
	s := newTestService(&recordingEngine{})
	path := filepath.Join(t.TempDir(), "missing.pdf")
	_, err := s.Answer(context.Background(), Request{Question: "q?", PDFPath: path})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should mention the path: %q", err.Error())
	}
}

func TestAnswer_pdfTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.pdf")
	if err := fixtures.WritePDF(path, "The spawn rate is 5 percent of substrate weight"); err != nil {
		t.Fatal(err)
	}
	engine := &recordingEngine{}
	s := newTestService(engine)
	res, err := s.Answer(context.Background(), Request{
		Question: "What is the spawn rate?",
		Context:  "ignored context",
		PDFPath:  path,
	})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(engine.passage, "spawn rate") || strings.Contains(engine.passage, "ignored") {
		t.Errorf("engine passage = %q", engine.passage)
	}
	if res.Source != SourcePDF {
		t.Errorf("source = %q", res.Source)
	}
}

func TestAnswer_corruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, fixtures.MinimalPDF("x")[:20], 0600); err != nil {
		t.Fatal(err)
	}
	s := newTestService(&recordingEngine{})
	_, err := s.Answer(context.Background(), Request{Question: "q?", PDFPath: path})
	var docErr *extract.DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected *extract.DocumentError, got %T (%v)", err, err)
	}
}

func TestAnswer_inferenceErrorPropagates(t *testing.T) {
	inner := &qa.InferenceError{Err: errors.New("tensor shape mismatch")}
	s := newTestService(&recordingEngine{err: inner})
	_, err := s.Answer(context.Background(), Request{Question: "q?", Context: "c"})
	var infErr *qa.InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("expected *qa.InferenceError, got %T (%v)", err, err)
	}
	if err.Error() != "tensor shape mismatch" {
		t.Errorf("message should be preserved verbatim, got %q", err.Error())
	}
}

func TestAnswer_noEngine(t *testing.T) {
	s := NewService(extract.NewExtractor(), nil)
	if _, err := s.Answer(context.Background(), Request{Question: "q?", Context: "c"}); err == nil {
		t.Error("expected error without an engine")
	}
}

func TestAnswer_lexicalScenario(t *testing.T) {
	s := newTestService(qa.NewLexicalEngine())
	passage := "Mushrooms grow best at 18 to 24 degrees Celsius."
	res, err := s.Answer(context.Background(), Request{Question: "What temperature is needed?", Context: passage})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if res.Text == "" || !strings.Contains(passage, res.Text) {
		t.Errorf("answer %q is not a substring of the context", res.Text)
	}
	if res.Score <= 0 || res.Score > 1 {
		t.Errorf("score out of range: %v", res.Score)
	}
}
