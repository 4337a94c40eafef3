package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sandesh/findocs/internal/resolver"
)

var (
	auditConcurrency int
	auditPacing      time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Probe the configured URLs of every bank",
	Long: `Probe every configured URL of every bank in the directory and report
which sources are reachable. Useful for spotting stale bank profiles
before report requests start failing.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditConcurrency, "concurrency", 4, "Number of banks to probe in parallel")
	auditCmd.Flags().DurationVar(&auditPacing, "pacing-delay", 2*time.Second, "Delay between probes against the same bank")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	deps, err := buildDeps(ctx, false, auditPacing, false, false)
	if err != nil {
		return err
	}
	defer deps.close()

	banks, err := deps.db.ListBanks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list banks: %w", err)
	}
	if len(banks) == 0 {
		fmt.Println("No banks configured.")
		return nil
	}

	var (
		mu        sync.Mutex
		diagnoses []*resolver.Diagnosis
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(auditConcurrency)
	for _, bank := range banks {
		symbol := bank.Symbol
		g.Go(func() error {
			diagnosis, err := deps.resolver.Diagnose(gCtx, symbol)
			if err != nil {
				return fmt.Errorf("diagnose %s: %w", symbol, err)
			}
			mu.Lock()
			diagnoses = append(diagnoses, diagnosis)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(diagnoses, func(i, j int) bool {
		return diagnoses[i].BankSymbol < diagnoses[j].BankSymbol
	})

	healthy := 0
	for _, d := range diagnoses {
		if d.OverallStatus == resolver.StatusHealthy {
			healthy++
		}
		fmt.Printf("%-8s %-10s %d/%d URLs reachable\n", d.BankSymbol, d.OverallStatus, d.AccessibleCount, d.TestedCount)
		for _, u := range d.URLs {
			if !u.Accessible {
				fmt.Printf("         %s (%s): %s\n", u.URL, u.Role, u.Issue)
			}
		}
	}
	fmt.Printf("\n%d/%d banks healthy\n", healthy, len(diagnoses))
	return nil
}
