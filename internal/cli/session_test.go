package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/pdfqa/internal/answer"
	"github.com/hyperjump/pdfqa/internal/qa"
)

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) Extract(string) (string, error) {
	return e.text, e.err
}

type scriptedAnswerer struct {
	questions []string
	contexts  []string
	err       error
}

func (a *scriptedAnswerer) Answer(_ context.Context, req answer.Request) (*answer.Result, error) {
	a.questions = append(a.questions, req.Question)
	a.contexts = append(a.contexts, req.Context)
	if a.err != nil {
		return nil, a.err
	}
	return &answer.Result{Answer: qa.Answer{Text: "18 to 24 degrees", Score: 0.8765}}, nil
}

func runSession(t *testing.T, ans *scriptedAnswerer, ext *stubExtractor, input string) (string, error) {
	t.Helper()
	var out strings.Builder
	s := &Session{Answerer: ans, Extractor: ext, In: strings.NewReader(input), Out: &out}
	err := s.Run(context.Background(), "guide.pdf")
	return out.String(), err
}

func TestSession_answersUntilExit(t *testing.T) {
	ans := &scriptedAnswerer{}
	out, err := runSession(t, ans, &stubExtractor{text: "Mushrooms grow best at 18 to 24 degrees."},
		"What temperature?\nEXIT\nignored\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(ans.questions) != 1 || ans.questions[0] != "What temperature?" {
		t.Errorf("questions = %v", ans.questions)
	}
	if ans.contexts[0] != "Mushrooms grow best at 18 to 24 degrees." {
		t.Errorf("context = %q", ans.contexts[0])
	}
	for _, want := range []string{"Extracted 8 words from PDF", "Answer: 18 to 24 degrees", "Confidence: 0.88", "Goodbye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSession_quitIsCaseInsensitive(t *testing.T) {
	ans := &scriptedAnswerer{}
	if _, err := runSession(t, ans, &stubExtractor{text: "x"}, "  Quit  \nWhat?\n"); err != nil {
		t.Fatal(err)
	}
	if len(ans.questions) != 0 {
		t.Errorf("expected no questions after quit, got %v", ans.questions)
	}
}

func TestSession_emptyQuestion(t *testing.T) {
	ans := &scriptedAnswerer{}
	out, err := runSession(t, ans, &stubExtractor{text: "x"}, "\n   \nexit\n")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "Please enter a valid question.") != 2 {
		t.Errorf("expected two prompts for a valid question:\n%s", out)
	}
	if len(ans.questions) != 0 {
		t.Errorf("empty input should not be answered: %v", ans.questions)
	}
}

func TestSession_errorsContinue(t *testing.T) {
	ans := &scriptedAnswerer{err: errors.New("inference exploded")}
	out, err := runSession(t, ans, &stubExtractor{text: "x"}, "one?\ntwo?\nexit\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(ans.questions) != 2 {
		t.Errorf("expected both questions to be attempted, got %v", ans.questions)
	}
	if strings.Count(out, "Error finding answer: inference exploded") != 2 {
		t.Errorf("expected errors to be printed:\n%s", out)
	}
}

func TestSession_endOfInput(t *testing.T) {
	ans := &scriptedAnswerer{}
	if _, err := runSession(t, ans, &stubExtractor{text: "x"}, "What?"); err != nil {
		t.Fatal(err)
	}
	if len(ans.questions) != 1 {
		t.Errorf("questions = %v", ans.questions)
	}
}

func TestSession_extractionFailure(t *testing.T) {
	ans := &scriptedAnswerer{}
	_, err := runSession(t, ans, &stubExtractor{err: errors.New("PDF processing failed: bad xref")}, "What?\n")
	if err == nil || !strings.Contains(err.Error(), "bad xref") {
		t.Errorf("expected extraction error, got %v", err)
	}
	if len(ans.questions) != 0 {
		t.Error("no question should be asked after a failed extraction")
	}
}
