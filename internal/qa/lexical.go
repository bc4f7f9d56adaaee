package qa

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/hyperjump/pdfqa/pkg/utils"
)

// stopWords are question words ignored when matching terms against the passage.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true, "were": true,
	"what": true, "which": true, "who": true, "whom": true, "when": true, "where": true,
	"why": true, "how": true, "do": true, "does": true, "did": true, "of": true, "to": true,
	"in": true, "on": true, "at": true, "for": true, "by": true, "with": true, "and": true,
	"or": true, "be": true, "it": true, "can": true, "should": true, "i": true, "my": true,
}

// LexicalEngine is a deterministic extractive engine that needs no model files: it answers
// with the passage sentence sharing the most terms with the question. The score is
// (matched+1)/(terms+1), so it is always in (0, 1].
type LexicalEngine struct{}

// NewLexicalEngine returns a LexicalEngine.
func NewLexicalEngine() *LexicalEngine {
	return &LexicalEngine{}
}

// Infer returns the best-matching sentence of passage.
func (e *LexicalEngine) Infer(_ context.Context, question, passage string) (*Answer, error) {
	sentences := splitSentences(passage)
	if len(sentences) == 0 {
		return nil, &InferenceError{Err: errors.New("context is empty")}
	}
	terms := questionTerms(question)

	best, bestMatches := sentences[0], -1
	for _, s := range sentences {
		words := termSet(passage[s.start:s.end])
		matches := 0
		for term := range terms {
			if words[term] {
				matches++
			}
		}
		if matches > bestMatches {
			best, bestMatches = s, matches
		}
	}
	score := float64(bestMatches+1) / float64(len(terms)+1)
	return &Answer{
		Text:  passage[best.start:best.end],
		Score: utils.Round(score, scorePrecision),
		Start: best.start,
		End:   best.end,
	}, nil
}

// Name returns "lexical".
func (e *LexicalEngine) Name() string {
	return BackendLexical
}

// Close is a no-op for LexicalEngine.
func (e *LexicalEngine) Close() error {
	return nil
}

// splitSentences returns trimmed, non-empty sentence spans. Terminal punctuation stays
// with its sentence.
func splitSentences(text string) []wordSpan {
	var spans []wordSpan
	add := func(start, end int) {
		seg := text[start:end]
		start += len(seg) - len(strings.TrimLeftFunc(seg, unicode.IsSpace))
		end -= len(seg) - len(strings.TrimRightFunc(seg, unicode.IsSpace))
		if start < end {
			spans = append(spans, wordSpan{start, end})
		}
	}
	start := 0
	for i, r := range text {
		switch r {
		case '.', '!', '?':
			add(start, i+1)
			start = i + 1
		case '\n':
			add(start, i)
			start = i + 1
		}
	}
	add(start, len(text))
	return spans
}

func questionTerms(question string) map[string]bool {
	terms := termSet(question)
	for t := range terms {
		if stopWords[t] {
			delete(terms, t)
		}
	}
	return terms
}

func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = true
	}
	return set
}
