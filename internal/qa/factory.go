package qa

import (
	"fmt"

	"go.uber.org/zap"
)

// NewEngine creates the engine selected by opts.Backend ("onnx" when empty) and wraps it
// in an inference cache when opts.CacheSize is positive. Any failure is a *ModelLoadError;
// there is no fallback to another backend.
func NewEngine(opts Options, logger *zap.Logger) (Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var engine Engine
	switch opts.Backend {
	case BackendONNX, "":
		onnxEngine, err := NewONNXEngine(opts)
		if err != nil {
			return nil, err
		}
		engine = onnxEngine
	case BackendLexical:
		engine = NewLexicalEngine()
	default:
		return nil, &ModelLoadError{
			Model: opts.Name,
			Err:   fmt.Errorf("unknown backend: %s (supported: onnx, lexical)", opts.Backend),
		}
	}
	logger.Info("qa engine loaded",
		zap.String("backend", opts.Backend),
		zap.String("model", engine.Name()),
		zap.Int("cache_size", opts.CacheSize),
	)
	if opts.CacheSize > 0 {
		return NewCachedEngine(engine, opts.CacheSize), nil
	}
	return engine, nil
}
