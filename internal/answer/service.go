// Package answer resolves the context of a question (direct text or PDF), bounds its
// length, and delegates answer extraction to a qa.Engine.
package answer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/pdfqa/internal/qa"
	"github.com/hyperjump/pdfqa/pkg/utils"
	"go.uber.org/zap"
)

// DefaultMaxContextLength is used when neither the request nor the service sets a limit.
const DefaultMaxContextLength = 5000

// Context sources reported in Result.Source.
const (
	SourceContext = "context"
	SourcePDF     = "pdf"
)

// TextExtractor extracts the text of a document on disk.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// Request is one question with either direct context text or a PDF path.
type Request struct {
	Question string
	Context  string
	PDFPath  string
	// MaxContextLength overrides the service limit when positive.
	MaxContextLength int
}

// Result is the engine answer plus how the context was obtained.
type Result struct {
	qa.Answer
	Source string
	// ContextLength is the number of characters passed to the engine.
	ContextLength int
	Truncated     bool
}

// Service answers questions. It performs no retries and does not recover errors: extraction
// and inference failures are returned as-is.
type Service struct {
	extractor        TextExtractor
	engine           qa.Engine
	maxContextLength int
	logger           *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxContextLength sets the default context limit in characters.
func WithMaxContextLength(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxContextLength = n
		}
	}
}

// WithLogger sets the logger for context resolution details.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service over a shared engine. The engine must already be loaded.
func NewService(extractor TextExtractor, engine qa.Engine, opts ...ServiceOption) *Service {
	s := &Service{
		extractor:        extractor,
		engine:           engine,
		maxContextLength: DefaultMaxContextLength,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxContextLength returns the default context limit in characters.
func (s *Service) MaxContextLength() int {
	return s.maxContextLength
}

// Answer resolves the request context, truncates it to the first MaxContextLength characters,
// and returns the engine's answer. A PDF path takes precedence over direct context.
func (s *Service) Answer(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, errEmptyQuestion
	}
	if s.engine == nil {
		return nil, &qa.InferenceError{Err: errors.New("model not initialized")}
	}

	text, source, err := s.resolveContext(req)
	if err != nil {
		return nil, err
	}

	limit := s.maxContextLength
	if req.MaxContextLength > 0 {
		limit = req.MaxContextLength
	}
	truncated := utils.PrefixChars(text, limit)
	s.logger.Debug("context resolved",
		zap.String("source", source),
		zap.Int("length", utils.CharCount(text)),
		zap.Bool("truncated", len(truncated) < len(text)),
	)

	answer, err := s.engine.Infer(ctx, req.Question, truncated)
	if err != nil {
		return nil, err
	}
	return &Result{
		Answer:        *answer,
		Source:        source,
		ContextLength: utils.CharCount(truncated),
		Truncated:     len(truncated) < len(text),
	}, nil
}

func (s *Service) resolveContext(req Request) (string, string, error) {
	if req.PDFPath != "" {
		if _, err := os.Stat(req.PDFPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", "", &NotFoundError{Path: req.PDFPath}
			}
			return "", "", fmt.Errorf("stat %s: %w", req.PDFPath, err)
		}
		text, err := s.extractor.Extract(req.PDFPath)
		if err != nil {
			return "", "", err
		}
		return text, SourcePDF, nil
	}
	if req.Context != "" {
		return req.Context, SourceContext, nil
	}
	return "", "", errNoContext
}
