// Package qa provides extractive question answering: given a question and a context,
// it selects the best answer span from the context and scores it.
package qa

import (
	"context"
	"fmt"
)

// scorePrecision is the number of decimal places kept in Answer.Score.
const scorePrecision = 4

// Answer is a span of the context chosen by an Engine.
type Answer struct {
	// Text is always passage[Start:End].
	Text string `json:"answer"`
	// Score is the engine's confidence in [0, 1], rounded to 4 decimal places.
	Score float64 `json:"confidence"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Engine answers questions against a context passage. Implementations return exactly one answer.
type Engine interface {
	Infer(ctx context.Context, question, passage string) (*Answer, error)
	// Name identifies the loaded model.
	Name() string
	Close() error
}

// ModelLoadError reports that the model could not be retrieved or initialized.
type ModelLoadError struct {
	Model string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("Model loading failed: %s: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// InferenceError reports a failed model call. Its message is the underlying error's message.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
