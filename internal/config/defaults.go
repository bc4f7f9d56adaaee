package config

import "github.com/hyperjump/pdfqa/internal/qa"

// DefaultMaxContextLength is the number of context characters passed to the model.
const DefaultMaxContextLength = 5000

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Model.Backend == "" {
		cfg.Model.Backend = qa.BackendONNX
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = "distilbert-base-cased-distilled-squad"
	}
	if cfg.Model.ModelPath == "" {
		cfg.Model.ModelPath = "/usr/local/var/pdfqa/models/distilbert-base-cased-distilled-squad.onnx"
	}
	if cfg.Model.VocabPath == "" {
		cfg.Model.VocabPath = "/usr/local/var/pdfqa/models/vocab.txt"
	}
	if cfg.Model.MaxSeqLength == 0 {
		cfg.Model.MaxSeqLength = 384
	}
	if cfg.Model.DocStride == 0 {
		cfg.Model.DocStride = 128
	}
	if cfg.Model.MaxQuestionTokens == 0 {
		cfg.Model.MaxQuestionTokens = 64
	}
	if cfg.Model.MaxAnswerTokens == 0 {
		cfg.Model.MaxAnswerTokens = 15
	}
	if cfg.Model.CacheSize == 0 {
		cfg.Model.CacheSize = 1000
	}
	if cfg.QA.MaxContextLength == 0 {
		cfg.QA.MaxContextLength = DefaultMaxContextLength
	}
	// Uploads are written relative to the working directory, like the HTTP API reports them.
	if cfg.Storage.UploadsDir == "" {
		cfg.Storage.UploadsDir = "uploads"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/pdfqa/data/answers.db"
	}
	if cfg.CLI.DefaultPDFPath == "" {
		cfg.CLI.DefaultPDFPath = "./data/mushroom_farming_guide.pdf"
	}
}
