package qa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Special tokens of BERT-family vocabularies.
const (
	clsToken = "[CLS]"
	sepToken = "[SEP]"
	padToken = "[PAD]"
	unkToken = "[UNK]"
)

// maxCharsPerWord is the longest word split into word pieces; longer words become [UNK].
const maxCharsPerWord = 100

// Vocab maps word pieces to token IDs.
type Vocab map[string]int64

// LoadVocab reads a vocab.txt file with one token per line; the line number is the token ID.
func LoadVocab(path string) (Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()
	return ParseVocab(f)
}

// ParseVocab reads a vocabulary with one token per line.
func ParseVocab(r io.Reader) (Vocab, error) {
	vocab := make(Vocab)
	scanner := bufio.NewScanner(r)
	var id int64
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r")
		if token != "" {
			vocab[token] = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	return vocab, nil
}

// Token is a word piece with its byte span in the tokenized text.
type Token struct {
	ID    int64
	Piece string
	Start int
	End   int
}

// Tokenizer is a WordPiece tokenizer that keeps source offsets for every token.
type Tokenizer struct {
	vocab     Vocab
	lowerCase bool
	clsID     int64
	sepID     int64
	padID     int64
	unkID     int64
}

// NewTokenizer returns a tokenizer over vocab. lowerCase enables lowercasing and accent
// stripping, as used by uncased models.
func NewTokenizer(vocab Vocab, lowerCase bool) (*Tokenizer, error) {
	t := &Tokenizer{vocab: vocab, lowerCase: lowerCase}
	for _, special := range []struct {
		token string
		id    *int64
	}{
		{clsToken, &t.clsID},
		{sepToken, &t.sepID},
		{padToken, &t.padID},
		{unkToken, &t.unkID},
	} {
		id, ok := vocab[special.token]
		if !ok {
			return nil, fmt.Errorf("vocab is missing %s", special.token)
		}
		*special.id = id
	}
	return t, nil
}

// Tokenize splits text into word pieces. Offsets refer to byte positions in text.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	for _, w := range splitWords(text) {
		tokens = t.appendWordPieces(tokens, text[w.start:w.end], w.start)
	}
	return tokens
}

type wordSpan struct {
	start, end int
}

// splitWords performs basic pre-tokenization: whitespace separates words, punctuation and
// CJK characters become words of their own, control characters are dropped.
func splitWords(text string) []wordSpan {
	var words []wordSpan
	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, wordSpan{start, end})
			start = -1
		}
	}
	for i, r := range text {
		switch {
		case r == 0 || r == utf8.RuneError || isControl(r):
			flush(i)
		case isWhitespace(r):
			flush(i)
		case isPunctuation(r) || isCJK(r):
			flush(i)
			words = append(words, wordSpan{i, i + utf8.RuneLen(r)})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return words
}

// normSegment links one source rune to its normalized form.
type normSegment struct {
	srcStart, srcEnd   int
	normStart, normEnd int
}

func (t *Tokenizer) normalizeWord(word string) (string, []normSegment) {
	var b strings.Builder
	segments := make([]normSegment, 0, len(word))
	for i, r := range word {
		n := string(r)
		if t.lowerCase {
			n = stripAccents(string(unicode.ToLower(r)))
		}
		if n == "" {
			continue
		}
		seg := normSegment{srcStart: i, srcEnd: i + len(string(r)), normStart: b.Len()}
		b.WriteString(n)
		seg.normEnd = b.Len()
		segments = append(segments, seg)
	}
	return b.String(), segments
}

// sourceSpan maps a byte span of the normalized word back to the source word.
func sourceSpan(segments []normSegment, start, end int) (int, int) {
	srcStart, srcEnd := segments[0].srcStart, segments[len(segments)-1].srcEnd
	for _, s := range segments {
		if s.normStart <= start && start < s.normEnd {
			srcStart = s.srcStart
		}
		if s.normStart < end && end <= s.normEnd {
			srcEnd = s.srcEnd
		}
	}
	return srcStart, srcEnd
}

func (t *Tokenizer) appendWordPieces(tokens []Token, word string, offset int) []Token {
	normalized, segments := t.normalizeWord(word)
	if normalized == "" {
		return tokens
	}
	unknown := Token{ID: t.unkID, Piece: unkToken, Start: offset + segments[0].srcStart, End: offset + segments[len(segments)-1].srcEnd}
	if utf8.RuneCountInString(normalized) > maxCharsPerWord {
		return append(tokens, unknown)
	}

	var pieces []Token
	start := 0
	for start < len(normalized) {
		end := len(normalized)
		found := false
		for end > start {
			piece := normalized[start:end]
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				srcStart, srcEnd := sourceSpan(segments, start, end)
				pieces = append(pieces, Token{ID: id, Piece: piece, Start: offset + srcStart, End: offset + srcEnd})
				found = true
				break
			}
			_, size := utf8.DecodeLastRuneInString(normalized[start:end])
			end -= size
		}
		if !found {
			return append(tokens, unknown)
		}
		start = end
	}
	return append(tokens, pieces...)
}

func stripAccents(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) || (r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
