// Package main provides the entry point for the financial documents API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "findocs",
	Short: "Financial report PDF link retrieval for Nepali banks",
	Long:  "findocs resolves annual and quarterly financial report PDF links for Nepali banks, answering from a database cache first and scraping bank websites with AI extraction on a miss.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
