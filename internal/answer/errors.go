package answer

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when a request has no usable question or context.
var ErrInvalidRequest = errors.New("invalid request")

var (
	errNoContext     = fmt.Errorf("%w: either context or pdf_path must be provided", ErrInvalidRequest)
	errEmptyQuestion = fmt.Errorf("%w: question must not be empty", ErrInvalidRequest)
)

// NotFoundError reports that the referenced PDF path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("PDF file not found: %s", e.Path)
}
