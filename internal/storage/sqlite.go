package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/pdfqa/internal/models"
)

// SQLiteAnswerLog implements AnswerLog using SQLite.
type SQLiteAnswerLog struct {
	db *sql.DB
}

// NewSQLiteAnswerLog opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteAnswerLog(dbPath string) (*SQLiteAnswerLog, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteAnswerLog{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS answers (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		source TEXT,
		pdf_path TEXT,
		answer TEXT NOT NULL,
		confidence REAL NOT NULL,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_answers_created_at ON answers(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts rec, assigning an ID and creation time when unset.
func (s *SQLiteAnswerLog) Record(ctx context.Context, rec *models.AnswerRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (id, question, source, pdf_path, answer, confidence, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Question, rec.Source, rec.PDFPath, rec.Answer, rec.Confidence, rec.Error, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

// List returns records ordered newest first.
func (s *SQLiteAnswerLog) List(ctx context.Context, offset, limit int) ([]*models.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, source, pdf_path, answer, confidence, error, created_at
		 FROM answers ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AnswerRecord
	for rows.Next() {
		var rec models.AnswerRecord
		var source, pdfPath, errMsg sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Question, &source, &pdfPath, &rec.Answer, &rec.Confidence, &errMsg, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Source, rec.PDFPath, rec.Error = source.String, pdfPath.String, errMsg.String
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Count returns the number of recorded answers.
func (s *SQLiteAnswerLog) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM answers").Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteAnswerLog) Close() error {
	return s.db.Close()
}
