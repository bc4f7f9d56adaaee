// Package main is the pdfqa CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/pdfqa/internal/answer"
	"github.com/hyperjump/pdfqa/internal/cli"
	"github.com/hyperjump/pdfqa/internal/config"
	"github.com/hyperjump/pdfqa/internal/extract"
	"github.com/hyperjump/pdfqa/internal/models"
	"github.com/hyperjump/pdfqa/internal/qa"
	"github.com/hyperjump/pdfqa/internal/server"
	"github.com/hyperjump/pdfqa/internal/storage"
	"github.com/hyperjump/pdfqa/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/pdfqa/config.yaml"
	defaultServerURL  = "http://localhost:8000"
)

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory is preferred if present, and built-in defaults are used if neither file exists.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "chat":
		runChat()
	case "ask":
		runAsk()
	case "upload":
		runUpload()
	case "version", "--version", "-v":
		fmt.Printf("pdfqa version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var answers storage.AnswerLog
	if cfg.Storage.DatabasePath != "" {
		answerLog, err := storage.NewSQLiteAnswerLog(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Warn("answer log disabled", zap.String("path", cfg.Storage.DatabasePath), zap.Error(err))
		} else {
			defer answerLog.Close()
			answers = answerLog
		}
	}

	srv := server.NewServer(
		components.Service,
		storage.NewUploads(cfg.Storage.UploadsDir),
		answers,
		server.ModelInfo{Name: components.Engine.Name(), Backend: cfg.Model.Backend},
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	pdfPath := fs.String("pdf", "", "PDF to answer questions about (default from config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	path := *pdfPath
	if path == "" {
		path = cfg.CLI.DefaultPDFPath
	}

	fmt.Println("Loading question-answering model...")
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	fmt.Println("\nStarting Interactive Q&A System")
	session := &cli.Session{
		Answerer:  components.Service,
		Extractor: components.Extractor,
		In:        os.Stdin,
		Out:       os.Stdout,
	}
	if err := session.Run(context.Background(), path); err != nil {
		fmt.Println(err)
	}
}

func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: pdfqa ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "The question is all remaining arguments joined by spaces. Either --context or --pdf is required.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  pdfqa ask --pdf uploads/guide.pdf what is the spawn rate
  pdfqa ask --context "Mushrooms grow best at 18 to 24 degrees Celsius." "What temperature is needed?"
  pdfqa ask --server "" --pdf guide.pdf --output json "How long does colonization take?"
`)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the model in this process)")
	contextText := fs.String("context", "", "context text to answer from")
	pdfPath := fs.String("pdf", "", "path of a PDF to answer from (takes precedence over --context)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	req := &models.AskRequest{Question: question, Context: *contextText, PDFPath: *pdfPath}

	var resp *models.AskResponse
	if *serverURL != "" {
		resp, err = askViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		resp = askDirect(*configPath, req)
	}
	if err := cli.WriteAskResponse(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if !resp.Success {
		os.Exit(1)
	}
}

// askDirect answers in this process. Failures use the same response shape as the HTTP API.
func askDirect(configPath string, req *models.AskRequest) *models.AskResponse {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	result, err := components.Service.Answer(context.Background(), answer.Request{
		Question: req.Question,
		Context:  req.Context,
		PDFPath:  req.PDFPath,
	})
	if err != nil {
		return models.NewFailedAskResponse(err.Error())
	}
	return &models.AskResponse{Success: true, Answer: result.Text, Confidence: result.Score}
}

func runUpload() {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: pdfqa upload [flags] <file>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	resp, err := uploadViaHTTP(*serverURL, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteUploadResponse(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// Components holds the shared, long-lived question-answering pieces.
type Components struct {
	Engine    qa.Engine
	Extractor *extract.Extractor
	Service   *answer.Service
}

// Close releases the engine.
func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
}

// modelOptions maps model configuration to engine options.
func modelOptions(cfg *config.ModelConfig) qa.Options {
	return qa.Options{
		Backend:           cfg.Backend,
		Name:              cfg.Name,
		ModelPath:         cfg.ModelPath,
		VocabPath:         cfg.VocabPath,
		SharedLibraryPath: cfg.SharedLibraryPath,
		LowerCase:         cfg.LowerCase,
		UseTokenTypeIDs:   cfg.UseTokenTypeIDs,
		Window: qa.WindowOptions{
			MaxSeqLength:      cfg.MaxSeqLength,
			DocStride:         cfg.DocStride,
			MaxQuestionTokens: cfg.MaxQuestionTokens,
		},
		MaxAnswerTokens: cfg.MaxAnswerTokens,
		CacheSize:       cfg.CacheSize,
	}
}

// initializeComponents loads the engine once and builds the answer service around it.
// A model that fails to load is returned as a *qa.ModelLoadError.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	engine, err := qa.NewEngine(modelOptions(&cfg.Model), logger)
	if err != nil {
		return nil, err
	}
	extractor := extract.NewExtractor()
	service := answer.NewService(extractor, engine,
		answer.WithMaxContextLength(cfg.QA.MaxContextLength),
		answer.WithLogger(logger),
	)
	return &Components{Engine: engine, Extractor: extractor, Service: service}, nil
}

func printUsage() {
	fmt.Println(`pdfqa - Question answering over PDF documents

Usage:
  pdfqa server [flags]            Start the HTTP server
  pdfqa chat [flags]              Interactive questions about one PDF
  pdfqa ask [flags] <question>    Answer one question
  pdfqa upload [flags] <file>     Upload a PDF to the server
  pdfqa version                   Show version
  pdfqa help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/pdfqa/config.yaml)
  --debug            Enable debug logging

Chat Flags:
  --config string    Config file path
  --pdf string       PDF to load (default: cli.default_pdf_path from config)
  --debug            Enable debug logging

Ask Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8000). Use empty (--server "") to answer in-process.
  --context string   Context text to answer from
  --pdf string       PDF path to answer from (takes precedence over --context)
  --output string    Output format: text or json (default: text)

Upload Flags:
  --server string    Server URL (default: http://localhost:8000)
  --output string    Output format: text or json (default: text)

Examples:
  pdfqa server
  pdfqa chat --pdf ./data/mushroom_farming_guide.pdf
  pdfqa upload guide.pdf
  pdfqa ask --pdf uploads/guide.pdf "What is the spawn rate?"
  pdfqa ask --server "" --context "Mushrooms grow best at 18 to 24 degrees Celsius." what temperature is needed`)
}
