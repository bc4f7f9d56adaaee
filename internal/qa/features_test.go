package qa

import "testing"

const (
	testQuestion = "What temperature is needed?"
	testPassage  = "Mushrooms grow best at 18 to 24 degrees Celsius."
)

func TestEncode_singleWindow(t *testing.T) {
	tok := newTestTokenizer(t, true)
	enc, err := tok.Encode(testQuestion, testPassage, WindowOptions{MaxSeqLength: 32, DocStride: 4, MaxQuestionTokens: 16})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(enc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(enc.Features))
	}
	f := enc.Features[0]
	if len(f.InputIDs) != 32 {
		t.Fatalf("feature length = %d", len(f.InputIDs))
	}
	// [CLS] what temperature is needed ? [SEP] <12 context tokens> [SEP] padding
	if f.InputIDs[0] != tok.clsID || f.InputIDs[6] != tok.sepID || f.InputIDs[19] != tok.sepID {
		t.Errorf("special token layout wrong: %v", f.InputIDs)
	}
	if f.ContextIndex[7] != 0 || f.ContextIndex[18] != 11 || f.ContextIndex[19] != -1 {
		t.Errorf("context index wrong: %v", f.ContextIndex)
	}
	if f.TokenTypeIDs[5] != 0 || f.TokenTypeIDs[7] != 1 {
		t.Errorf("token types wrong: %v", f.TokenTypeIDs)
	}
	if f.AttentionMask[19] != 1 || f.AttentionMask[20] != 0 || f.InputIDs[20] != tok.padID {
		t.Errorf("padding wrong: ids=%v mask=%v", f.InputIDs, f.AttentionMask)
	}
}

func TestEncode_overlappingWindows(t *testing.T) {
	tok := newTestTokenizer(t, true)
	// 5 question tokens leave 12-5-3 = 4 context slots; stride 2 moves 2 tokens per window.
	enc, err := tok.Encode(testQuestion, testPassage, WindowOptions{MaxSeqLength: 12, DocStride: 2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(enc.Features) != 5 {
		t.Fatalf("got %d windows, want 5", len(enc.Features))
	}
	for i, f := range enc.Features {
		if got := f.ContextIndex[7]; got != 2*i {
			t.Errorf("window %d starts at context token %d, want %d", i, got, 2*i)
		}
	}
	last := enc.Features[len(enc.Features)-1]
	if last.ContextIndex[10] != 11 {
		t.Errorf("last window should end at the last context token: %v", last.ContextIndex)
	}
}

func TestEncode_questionTruncated(t *testing.T) {
	tok := newTestTokenizer(t, true)
	enc, err := tok.Encode(testQuestion, testPassage, WindowOptions{MaxSeqLength: 32, MaxQuestionTokens: 2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if f := enc.Features[0]; f.InputIDs[3] != tok.sepID {
		t.Errorf("question should be cut to 2 tokens: %v", f.InputIDs)
	}
}

func TestEncode_errors(t *testing.T) {
	tok := newTestTokenizer(t, true)
	if _, err := tok.Encode("", testPassage, DefaultWindowOptions()); err == nil {
		t.Error("expected error for empty question")
	}
	if _, err := tok.Encode(testQuestion, "   ", DefaultWindowOptions()); err == nil {
		t.Error("expected error for empty context")
	}
	if _, err := tok.Encode(testQuestion, testPassage, WindowOptions{MaxSeqLength: 8}); err == nil {
		t.Error("expected error when the window cannot hold any context")
	}
}
