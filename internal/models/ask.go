// Package models defines request, response and record types of the question-answering API.
package models

import "time"

// AskRequest is the body of POST /ask. Either Context or PDFPath should be set;
// PDFPath wins when both are.
type AskRequest struct {
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
	PDFPath  string `json:"pdf_path,omitempty"`
}

// AskResponse is the body returned by POST /ask. Failures are reported with
// Success=false, an empty Answer, zero Confidence and the error message.
type AskResponse struct {
	Success    bool    `json:"success"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// UploadResponse is the body returned by POST /upload-pdf/.
type UploadResponse struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Size     int64  `json:"size"`
}

// ErrorDetail is the body of transport-level errors.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// AnswerRecord is one recorded /ask outcome.
type AnswerRecord struct {
	ID         string    `json:"id" db:"id"`
	Question   string    `json:"question" db:"question"`
	Source     string    `json:"source,omitempty" db:"source"`
	PDFPath    string    `json:"pdf_path,omitempty" db:"pdf_path"`
	Answer     string    `json:"answer" db:"answer"`
	Confidence float64   `json:"confidence" db:"confidence"`
	Error      string    `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Succeeded reports whether the recorded request produced an answer.
func (r *AnswerRecord) Succeeded() bool {
	return r.Error == ""
}

// AnswerList is the body returned by GET /api/v1/answers.
type AnswerList struct {
	Answers []*AnswerRecord `json:"answers"`
	Total   int64           `json:"total"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
}

// NewFailedAskResponse returns the uniform failure shape for message.
func NewFailedAskResponse(message string) *AskResponse {
	return &AskResponse{Success: false, Answer: "", Confidence: 0.0, Error: message}
}
