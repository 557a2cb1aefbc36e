package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/avinse/reportage/export"
	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/model"
)

var processCmd = &cobra.Command{
	Use:   "process <pdf|dir>",
	Short: "Process one annual report or a directory tree",
	Long: `Process runs the full pipeline for a single PDF or for every PDF
under a directory: classify, extract, clean, detect section boundaries,
slice section contents, export, and record the run in the ledger.

Documents whose outputs already exist and whose input is unchanged are
skipped unless --force is given. In directory mode a failed document
never stops the batch; failures are recorded in the ledger and the
batch summary workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, "workers", "output", "ocr-lang", "keywords")
	force, _ := cmd.Flags().GetBool("force")

	cfg, runner, ledger, err := openRunner()
	if err != nil {
		return err
	}
	defer ledger.Close()

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	if info.IsDir() {
		results, err := runner.ProcessBatch(ctx, args[0], force)
		if err != nil {
			return err
		}
		var processed, skipped, failed int
		for _, res := range results {
			switch {
			case res.Err != nil:
				failed++
			case res.Skipped:
				skipped++
			default:
				processed++
			}
		}
		fmt.Printf("Batch finished: %d processed, %d skipped, %d failed (summary in %s)\n",
			processed, skipped, failed, filepath.Join(cfg.OutputDir, export.BatchSummaryFile))
		return nil
	}

	res := runner.ProcessFile(ctx, args[0], force)
	if res.Err != nil {
		return res.Err
	}
	if res.Skipped {
		fmt.Println("Skipped: outputs exist and the input is unchanged (use --force to reprocess)")
		return nil
	}
	printReport(res.Report)
	return nil
}

func printReport(rep *model.Report) {
	fmt.Printf("%s: %d pages, %s, %s in %s\n",
		filepath.Base(rep.Source), rep.Stats.TotalPages, rep.Kind, rep.Status,
		rep.Elapsed().Round(time.Millisecond))
	if rep.Company != "" {
		fmt.Printf("  identity: %s %d\n", rep.Company, rep.Year)
	}
	printBoundaries(rep.Boundaries)
	if len(rep.Tables) > 0 {
		fmt.Printf("  tables: %d detected\n", len(rep.Tables))
	}
	for _, w := range rep.Warnings {
		fmt.Println("  warning:", w.String())
	}
}

func printBoundaries(boundaries map[model.SectionType]model.SectionBoundary) {
	for _, t := range model.SectionTypes() {
		b, ok := boundaries[t]
		if !ok {
			fmt.Printf("  %-24s not found\n", t.String()+":")
			continue
		}
		fmt.Printf("  %-24s pages %d-%d (confidence %.2f) %q\n",
			t.String()+":", b.StartPage, b.EndPage, b.Confidence, b.HeadingText)
	}
}

func init() {
	processCmd.Flags().Bool("force", false, "reprocess even when outputs already exist")
	processCmd.Flags().Int("workers", config.DefaultWorkers, "concurrent documents in directory mode")
	processCmd.Flags().String("output", config.DefaultOutputDir, "output directory root")
	processCmd.Flags().String("ocr-lang", "", "OCR language for scanned documents (implies OCR)")
	processCmd.Flags().String("keywords", "", "YAML keyword table overriding the built-in detection phrases")

	rootCmd.AddCommand(processCmd)
}
