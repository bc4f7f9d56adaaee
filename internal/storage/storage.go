// Package storage persists uploaded documents on disk and keeps a log of answered questions.
package storage

import (
	"context"

	"github.com/hyperjump/pdfqa/internal/models"
)

// AnswerLog records /ask outcomes.
type AnswerLog interface {
	Record(ctx context.Context, rec *models.AnswerRecord) error
	// List returns records newest first.
	List(ctx context.Context, offset, limit int) ([]*models.AnswerRecord, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
