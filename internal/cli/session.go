package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/pdfqa/internal/answer"
)

// DefaultPrompt is shown before each question.
const DefaultPrompt = "Enter your question: "

const separator = "=================================================="

// Answerer answers a single question.
type Answerer interface {
	Answer(ctx context.Context, req answer.Request) (*answer.Result, error)
}

// Session is an interactive question loop over one PDF. The document is extracted once and
// its text is reused as the context of every question.
type Session struct {
	Answerer  Answerer
	Extractor answer.TextExtractor
	Prompt    string
	In        io.Reader
	Out       io.Writer
}

// Run extracts pdfPath and answers questions read from In until "exit" or "quit"
// (any case) or end of input. Failures of individual questions are printed and the loop
// continues; only a failed extraction is returned.
func (s *Session) Run(ctx context.Context, pdfPath string) error {
	text, err := s.Extractor.Extract(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to start interactive session: %w", err)
	}
	prompt := s.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	fmt.Fprintf(s.Out, "\nExtracted %d words from PDF\n", len(strings.Fields(text)))
	fmt.Fprintf(s.Out, "Type 'exit' or 'quit' to end the session\n\n")

	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.Out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "exit", "quit":
			fmt.Fprintf(s.Out, "\nEnding Q&A session. Goodbye!\n")
			return nil
		case "":
			fmt.Fprintf(s.Out, "Please enter a valid question.\n\n")
			continue
		}

		fmt.Fprintf(s.Out, "\nSearching for answer...\n")
		result, err := s.Answerer.Answer(ctx, answer.Request{Question: question, Context: text})
		if err != nil {
			fmt.Fprintf(s.Out, "\nError finding answer: %v\n", err)
		} else {
			fmt.Fprintf(s.Out, "\nAnswer: %s\n", result.Text)
			fmt.Fprintf(s.Out, "Confidence: %.2f\n", result.Score)
		}
		fmt.Fprintf(s.Out, "\n%s\n\n", separator)
	}
}
