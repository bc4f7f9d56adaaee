package qa

import "errors"

// Feature is one fixed-length model input: [CLS] question [SEP] context-window [SEP] padding.
type Feature struct {
	InputIDs      []int64
	AttentionMask []int64
	TokenTypeIDs  []int64
	// ContextIndex maps each position to an index into Encoding.ContextTokens, or -1 for
	// positions that are not context (special tokens, question, padding).
	ContextIndex []int
}

// Encoding is a question/context pair split into model inputs.
type Encoding struct {
	ContextTokens []Token
	Features      []Feature
}

// Encode tokenizes question and context and packs them into one or more features.
// Contexts longer than one window are split into windows overlapping by DocStride tokens.
func (t *Tokenizer) Encode(question, passage string, opts WindowOptions) (*Encoding, error) {
	questionTokens := t.Tokenize(question)
	if len(questionTokens) == 0 {
		return nil, errors.New("question contains no tokens")
	}
	contextTokens := t.Tokenize(passage)
	if len(contextTokens) == 0 {
		return nil, errors.New("context contains no tokens")
	}
	if opts.MaxQuestionTokens > 0 && len(questionTokens) > opts.MaxQuestionTokens {
		questionTokens = questionTokens[:opts.MaxQuestionTokens]
	}

	// [CLS] question [SEP] ... [SEP]
	available := opts.MaxSeqLength - len(questionTokens) - 3
	if available <= 0 {
		return nil, errors.New("max sequence length leaves no room for context")
	}
	step := available - opts.DocStride
	if step <= 0 {
		step = available
	}

	enc := &Encoding{ContextTokens: contextTokens}
	for start := 0; ; start += step {
		end := start + available
		if end > len(contextTokens) {
			end = len(contextTokens)
		}
		enc.Features = append(enc.Features, t.buildFeature(questionTokens, contextTokens, start, end, opts.MaxSeqLength))
		if end == len(contextTokens) {
			break
		}
	}
	return enc, nil
}

func (t *Tokenizer) buildFeature(question, context []Token, start, end, seqLen int) Feature {
	f := Feature{
		InputIDs:      make([]int64, seqLen),
		AttentionMask: make([]int64, seqLen),
		TokenTypeIDs:  make([]int64, seqLen),
		ContextIndex:  make([]int, seqLen),
	}
	for i := range f.InputIDs {
		f.InputIDs[i] = t.padID
		f.ContextIndex[i] = -1
	}
	pos := 0
	put := func(id int64, typeID int64, ctxIndex int) {
		f.InputIDs[pos] = id
		f.AttentionMask[pos] = 1
		f.TokenTypeIDs[pos] = typeID
		f.ContextIndex[pos] = ctxIndex
		pos++
	}
	put(t.clsID, 0, -1)
	for _, tok := range question {
		put(tok.ID, 0, -1)
	}
	put(t.sepID, 0, -1)
	for i := start; i < end; i++ {
		put(context[i].ID, 1, i)
	}
	put(t.sepID, 1, -1)
	return f
}
