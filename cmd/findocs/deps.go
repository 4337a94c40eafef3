package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sandesh/findocs/internal/db"
	"github.com/sandesh/findocs/internal/fetch"
	"github.com/sandesh/findocs/internal/llm"
	"github.com/sandesh/findocs/internal/resolver"
)

// cliDeps holds the wired collaborators for one-shot commands.
type cliDeps struct {
	db       *db.DB
	resolver *resolver.Resolver
	close    func()
}

// buildDeps connects the database and, when withLLM is set, the Gemini
// client, and wires a resolver around them.
func buildDeps(ctx context.Context, withLLM bool, pacing time.Duration, useBrowser bool, verbose bool) (*cliDeps, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var (
		llmClient llm.Client
		extractor resolver.Extractor
	)
	if withLLM {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			database.Close()
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = llm.DefaultModel
		}
		llmClient, err = llm.NewGeminiClient(ctx, apiKey, model)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		extractor, err = llm.NewReportExtractor(llmClient)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create report extractor: %w", err)
		}
	}

	fetcher := fetch.NewClient(fetch.ClientConfig{
		UseBrowser: useBrowser,
		Verbose:    verbose,
	})

	res := resolver.New(resolver.Config{
		Directory:   database,
		Store:       database,
		Fetcher:     fetcher,
		Extractor:   extractor,
		PacingDelay: pacing,
	})

	return &cliDeps{
		db:       database,
		resolver: res,
		close: func() {
			if llmClient != nil {
				if err := llmClient.Close(); err != nil {
					log.Printf("Error closing LLM client: %v", err)
				}
			}
			database.Close()
		},
	}, nil
}
