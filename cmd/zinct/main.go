package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zinct/zinct/internal/capture"
	"github.com/zinct/zinct/internal/extraction"
	"github.com/zinct/zinct/internal/ledger"
	"github.com/zinct/zinct/internal/sink"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("zinct")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		archivePath   = fs.StringLong("archive", "./captures", "Directory for archived receipt images (empty to disable)")
		extractorType = fs.StringLong("extractor", "gemini", "Extractor type: 'gemini' or 'ollama'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl, bakllava)")
		schema        = fs.StringLong("schema", "extended", "Extraction schema: 'minimal' or 'extended'")
		categories    = fs.StringLong("categories", "", "Comma-separated category set (default: UK trade categories)")
		sinkType      = fs.StringLong("sink", "noop", "Sink type: 'noop', 'sheets' or 'bolt'")
		sheetsID      = fs.StringLong("sheets-id", "", "Google Sheets spreadsheet ID (for --sink sheets)")
		sheetsCreds   = fs.StringLong("sheets-creds", "", "Service account credentials file (for --sink sheets)")
		sheetsRange   = fs.StringLong("sheets-range", "A:G", "Sheet range to append to (for --sink sheets)")
		boltPath      = fs.StringLong("bolt", "zinct-rows.db", "Local sink database path (for --sink bolt)")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("ZINCT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	ctx := context.Background()

	// Initialize extractor
	var extractor extraction.Extractor
	var err error
	switch *extractorType {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini extractor...")
		extractor, err = extraction.NewGemini(ctx, apiKey)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama extractor...", "url", *ollamaURL, "model", *ollamaModel)
		extractor, err = extraction.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid extractor type", "type", *extractorType, "valid", "gemini or ollama")
		os.Exit(1)
	}
	defer extractor.Close()

	// Category set
	categorySet := ledger.DefaultCategories
	if *categories != "" {
		categorySet = nil
		for _, c := range strings.Split(*categories, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categorySet = append(categorySet, c)
			}
		}
	}

	// Extraction schema
	fields := extraction.ExtendedFields
	switch *schema {
	case "extended":
	case "minimal":
		fields = extraction.MinimalFields
	default:
		slog.Error("Invalid schema", "schema", *schema, "valid", "minimal or extended")
		os.Exit(1)
	}
	prompt := extraction.PromptSpec{Fields: fields, Categories: categorySet}

	// Initialize sink
	var snk sink.Sink
	switch *sinkType {
	case "noop":
		slog.Info("Running in demo mode, records are not mirrored externally")
		snk = sink.Noop{}
	case "sheets":
		slog.Info("Initializing Google Sheets sink...", "spreadsheet", *sheetsID)
		snk, err = sink.NewSheets(ctx, *sheetsCreds, *sheetsID, *sheetsRange)
		if err != nil {
			slog.Error("Failed to initialize Sheets sink", "error", err)
			os.Exit(1)
		}
	case "bolt":
		slog.Info("Initializing local sink...", "path", *boltPath)
		snk, err = sink.NewBolt(*boltPath)
		if err != nil {
			slog.Error("Failed to initialize local sink", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid sink type", "type", *sinkType, "valid", "noop, sheets or bolt")
		os.Exit(1)
	}
	defer snk.Close()

	// Initialize image archive
	var archive capture.Archive
	if *archivePath != "" {
		archive, err = capture.NewLocalArchive(*archivePath)
		if err != nil {
			slog.Error("Failed to initialize archive", "error", err)
			os.Exit(1)
		}
	}

	// Initialize service and server
	service := capture.NewService(extractor, prompt, ledger.Normalizer{Categories: categorySet}, snk, archive)
	sessions := capture.NewSessions()

	basicAuth := capture.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := capture.NewServer(service, sessions, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
