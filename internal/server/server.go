// Package server provides the HTTP REST API for financial report retrieval.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sandesh/findocs/internal/db"
	"github.com/sandesh/findocs/internal/fetch"
	"github.com/sandesh/findocs/internal/llm"
	"github.com/sandesh/findocs/internal/observability"
	"github.com/sandesh/findocs/internal/resolver"
	"github.com/sandesh/findocs/internal/types"
)

// reportResolver is the resolution surface the handlers depend on.
type reportResolver interface {
	Resolve(ctx context.Context, query types.ReportQuery) (*resolver.Resolution, error)
	Diagnose(ctx context.Context, symbol string) (*resolver.Diagnosis, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	llmClient  llm.Client
	resolver   reportResolver
	metrics    *observability.Metrics
	registry   *prometheus.Registry
	handler    http.Handler
}

// Config holds server configuration
type Config struct {
	Port           int
	DatabaseURL    string
	GeminiAPIKey   string
	GeminiModel    string
	UseBrowser     bool
	BrowserTimeout time.Duration
	PacingDelay    time.Duration
	Verbose        bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	extractor, err := llm.NewReportExtractor(llmClient)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create report extractor: %w", err)
	}

	fetcher := fetch.NewClient(fetch.ClientConfig{
		UseBrowser:     cfg.UseBrowser,
		BrowserTimeout: cfg.BrowserTimeout,
		Verbose:        cfg.Verbose,
	})

	pacing := cfg.PacingDelay
	if pacing == 0 {
		pacing = resolver.DefaultPacingDelay
	}

	s := newServer(database, llmClient, resolver.New(resolver.Config{
		Directory:   database,
		Store:       database,
		Fetcher:     fetcher,
		Extractor:   extractor,
		PacingDelay: pacing,
	}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // browser rendering and LLM calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// newServer wires routes and metrics around a resolver. Split from New so
// tests can inject a fake resolver without a database or LLM client.
func newServer(database *db.DB, llmClient llm.Client, res reportResolver) *Server {
	s := &Server{
		db:        database,
		llmClient: llmClient,
		resolver:  res,
		registry:  prometheus.NewRegistry(),
	}
	s.metrics = observability.NewMetrics(s.registry)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /annual-report", s.handleAnnualReport)
	mux.HandleFunc("GET /quarterly-report", s.handleQuarterlyReport)
	mux.HandleFunc("GET /diagnose/{symbol}", s.handleDiagnose)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.handler = s.withLogging(s.withCORS(mux))
	return s
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
