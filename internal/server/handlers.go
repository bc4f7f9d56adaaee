package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hyperjump/pdfqa/internal/answer"
	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/pkg/utils"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// handleAsk answers a question. Every service error is reported in the body with status 200.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	s.logger.Debug("ask request",
		zap.String("question", utils.Truncate(req.Question, 200)),
		zap.Int("context_length", len(req.Context)),
		zap.String("pdf_path", req.PDFPath),
	)

	rec := &models.AnswerRecord{Question: req.Question, PDFPath: req.PDFPath}
	var resp *models.AskResponse
	result, err := s.service.Answer(r.Context(), answer.Request{
		Question: req.Question,
		Context:  req.Context,
		PDFPath:  req.PDFPath,
	})
	if err != nil {
		s.logger.Warn("ask failed", zap.Error(err))
		resp = models.NewFailedAskResponse(err.Error())
		rec.Error = err.Error()
	} else {
		resp = &models.AskResponse{Success: true, Answer: result.Text, Confidence: result.Score}
		rec.Source = result.Source
		rec.Answer = result.Text
		rec.Confidence = result.Score
	}
	if s.answers != nil {
		if err := s.answers.Record(r.Context(), rec); err != nil {
			s.logger.Warn("failed to record answer", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			s.respondError(w, http.StatusUnprocessableEntity, "file is required")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer file.Close()

	s.logger.Debug("upload request", zap.String("filename", header.Filename), zap.Int64("size", header.Size))
	path, size, err := s.uploads.Save(header.Filename, file)
	if err != nil {
		s.logger.Error("upload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &models.UploadResponse{Success: true, FilePath: path, Size: size})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"model":              s.model.Name,
		"backend":            s.model.Backend,
		"max_context_length": s.service.MaxContextLength(),
		"uploads_dir":        s.uploads.Dir(),
	}
	if usage, err := s.uploads.DiskUsage(); err == nil {
		resp["disk_usage_bytes"] = usage
	} else {
		s.logger.Warn("status: disk usage failed", zap.Error(err))
	}
	if s.answers != nil {
		count, err := s.answers.Count(r.Context())
		if err != nil {
			s.logger.Error("status: count answers failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["answers"] = count
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	if s.answers == nil {
		s.respondError(w, http.StatusNotImplemented, "answer log not enabled")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ctx := r.Context()
	records, err := s.answers.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("list answers failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.answers.Count(ctx)
	if err != nil {
		s.logger.Error("count answers failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*models.AnswerRecord{}
	}
	s.respondJSON(w, http.StatusOK, &models.AnswerList{Answers: records, Total: total, Offset: offset, Limit: limit})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, &models.ErrorDetail{Detail: message})
}
