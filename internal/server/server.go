// Package server provides the HTTP API for pdfqa.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/pdfqa/internal/answer"
	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/hyperjump/pdfqa/internal/storage"
	"go.uber.org/zap"
)

// ModelInfo describes the loaded engine for the status endpoint.
type ModelInfo struct {
	Name    string
	Backend string
}

// Server is the HTTP server for the question-answering API.
type Server struct {
	service *answer.Service
	uploads *storage.Uploads
	answers storage.AnswerLog
	model   ModelInfo
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. answers may be nil, in which case
// ask outcomes are not recorded.
func NewServer(
	service *answer.Service,
	uploads *storage.Uploads,
	answers storage.AnswerLog,
	model ModelInfo,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		service: service,
		uploads: uploads,
		answers: answers,
		model:   model,
		config:  cfg,
		logger:  logger,
	}
}

// Handler returns the router serving all API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Post("/ask", s.handleAsk)
	r.Post("/upload-pdf/", s.handleUpload)
	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/answers", s.handleListAnswers)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
