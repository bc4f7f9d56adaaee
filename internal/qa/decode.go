package qa

import "github.com/hyperjump/pdfqa/pkg/utils"

// maskedLogit replaces logits of positions that cannot start or end an answer.
const maskedLogit = -10000

// Span is a candidate answer expressed as feature positions (inclusive).
type Span struct {
	Start int
	End   int
	Score float64
}

// DecodeSpan picks the answer span of one feature. Logits of non-context positions are
// masked, start and end logits are turned into probabilities with softmax, and the span
// s <= e < s+maxAnswerTokens maximizing p(start=s)*p(end=e) wins. Returns false when the
// feature holds no context token.
func DecodeSpan(startLogits, endLogits []float32, contextIndex []int, maxAnswerTokens int) (Span, bool) {
	n := len(contextIndex)
	if len(startLogits) < n || len(endLogits) < n {
		return Span{}, false
	}
	if maxAnswerTokens <= 0 {
		maxAnswerTokens = 1
	}
	start := make([]float32, n)
	end := make([]float32, n)
	for i := 0; i < n; i++ {
		if contextIndex[i] < 0 {
			start[i], end[i] = maskedLogit, maskedLogit
			continue
		}
		start[i], end[i] = startLogits[i], endLogits[i]
	}
	pStart := utils.Softmax(start)
	pEnd := utils.Softmax(end)

	best := Span{Start: -1}
	for s := 0; s < n; s++ {
		if contextIndex[s] < 0 {
			continue
		}
		for e := s; e < n && e < s+maxAnswerTokens; e++ {
			if contextIndex[e] < 0 {
				break
			}
			if score := pStart[s] * pEnd[e]; best.Start < 0 || score > best.Score {
				best = Span{Start: s, End: e, Score: score}
			}
		}
	}
	return best, best.Start >= 0
}

// answerFromSpan converts a decoded span of feature f into an Answer over passage.
func answerFromSpan(passage string, enc *Encoding, f Feature, span Span) *Answer {
	first := enc.ContextTokens[f.ContextIndex[span.Start]]
	last := enc.ContextTokens[f.ContextIndex[span.End]]
	return &Answer{
		Text:  passage[first.Start:last.End],
		Score: utils.Round(span.Score, scorePrecision),
		Start: first.Start,
		End:   last.End,
	}
}
