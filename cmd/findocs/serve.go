package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandesh/findocs/internal/llm"
	"github.com/sandesh/findocs/internal/server"
)

var (
	servePort        int
	servePacing      time.Duration
	serveUseBrowser  bool
	serveBrowserTime time.Duration
	serveVerbose     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes report retrieval, diagnostics and metrics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().DurationVar(&servePacing, "pacing-delay", 2*time.Second, "Delay between scrape attempts against the same bank")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", true, "Fall back to a headless browser for JavaScript-heavy pages")
	serveCmd.Flags().DurationVar(&serveBrowserTime, "browser-timeout", 30*time.Second, "Timeout for headless browser rendering")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = llm.DefaultModel
	}

	cfg := server.Config{
		Port:           servePort,
		DatabaseURL:    databaseURL,
		GeminiAPIKey:   apiKey,
		GeminiModel:    model,
		UseBrowser:     serveUseBrowser,
		BrowserTimeout: serveBrowserTime,
		PacingDelay:    servePacing,
		Verbose:        serveVerbose,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
