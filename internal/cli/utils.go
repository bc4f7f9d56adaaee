// Package cli provides the interactive session and output helpers of the pdfqa command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/pdfqa/internal/models"
)

// OutputFormat is the format for answer output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat returns the format named by s.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteAskResponse writes an ask response to w in the given format.
func WriteAskResponse(w io.Writer, resp *models.AskResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if !resp.Success {
		_, err := fmt.Fprintf(w, "Error: %s\n", resp.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "Answer: %s\nConfidence: %.2f\n", resp.Answer, resp.Confidence)
	return err
}

// WriteUploadResponse writes an upload response to w in the given format.
func WriteUploadResponse(w io.Writer, resp *models.UploadResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err := fmt.Fprintf(w, "Uploaded %s (%d bytes)\n", resp.FilePath, resp.Size)
	return err
}
