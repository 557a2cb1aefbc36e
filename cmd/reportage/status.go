package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the run ledger",
	Long: `Status prints run counts from the ledger and the most recent
documents: how many processed and failed, how many have each narrative
section, and when each document was last run.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, "output")
	cfg := config.Load()

	ledger, err := state.Open(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx := context.Background()
	sum, err := ledger.Summarize(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Documents: %d total, %d processed, %d failed\n", sum.Total, sum.Processed, sum.Failed)
	fmt.Printf("Sections:  %d with letter, %d with MD&A\n", sum.WithLetter, sum.WithMDNA)

	limit, _ := cmd.Flags().GetInt("recent")
	recent, err := ledger.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		return nil
	}

	fmt.Printf("\n%-28s  %-5s  %-9s  %5s  %s\n", "Company", "Year", "Status", "Pages", "Processed")
	fmt.Println(strings.Repeat("-", 72))
	for _, rec := range recent {
		company := rec.Company
		if company == "" {
			company = filepath.Base(rec.Source)
		}
		if len(company) > 28 {
			company = company[:25] + "..."
		}
		year := ""
		if rec.Year != 0 {
			year = strconv.Itoa(rec.Year)
		}
		fmt.Printf("%-28s  %-5s  %-9s  %5d  %s\n",
			company, year, rec.Status, rec.Pages,
			rec.ProcessedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func init() {
	statusCmd.Flags().Int("recent", 10, "number of recent runs to list")
	statusCmd.Flags().String("output", config.DefaultOutputDir, "output directory root")

	rootCmd.AddCommand(statusCmd)
}
