//go:build !cgo
// +build !cgo

package qa

import (
	"context"
	"errors"
)

// ONNXEngine stub type when built without CGO (see onnx.go for real implementation).
type ONNXEngine struct{}

// NewONNXEngine returns a *ModelLoadError when built without CGO (ONNX not available).
func NewONNXEngine(opts Options) (*ONNXEngine, error) {
	return nil, &ModelLoadError{
		Model: opts.Name,
		Err:   errors.New("ONNX engine requires CGO; build with CGO_ENABLED=1 and onnxruntime"),
	}
}

// Infer is never reached because NewONNXEngine always fails without CGO.
func (e *ONNXEngine) Infer(context.Context, string, string) (*Answer, error) {
	return nil, &InferenceError{Err: errors.New("model not initialized")}
}

// Name returns an empty name.
func (e *ONNXEngine) Name() string { return "" }

// Close is a no-op.
func (e *ONNXEngine) Close() error { return nil }
