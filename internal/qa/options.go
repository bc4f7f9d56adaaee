package qa

// Backend names accepted by NewEngine.
const (
	BackendONNX    = "onnx"
	BackendLexical = "lexical"
)

// Options configures engine construction.
type Options struct {
	Backend string
	// Name is the model name reported by Engine.Name.
	Name              string
	ModelPath         string
	VocabPath         string
	SharedLibraryPath string
	LowerCase         bool
	UseTokenTypeIDs   bool
	Window            WindowOptions
	MaxAnswerTokens   int
	// CacheSize bounds the inference cache; zero or negative disables it.
	CacheSize int
}

// WindowOptions controls how question and context are packed into fixed-size model inputs.
type WindowOptions struct {
	MaxSeqLength      int
	DocStride         int
	MaxQuestionTokens int
}

// DefaultWindowOptions returns the window settings used by SQuAD-style BERT models.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{MaxSeqLength: 384, DocStride: 128, MaxQuestionTokens: 64}
}
