package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/model"
)

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Reprocess failed documents and missing sections",
	Long: `Retry queries the run ledger for documents that failed or that have
no boundary for the target section, resolves their source PDFs, and runs
them again smallest-first. Sources that no longer exist at their
recorded path are matched by company and year under --input. Files over
the size cap are skipped.`,
	RunE: runRetry,
}

func runRetry(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, "output", "workers", "ocr-lang", "keywords", "max-size")

	sectionName, _ := cmd.Flags().GetString("section")
	section, err := model.ParseSectionType(sectionName)
	if err != nil {
		return err
	}
	input, _ := cmd.Flags().GetString("input")

	cfg, runner, ledger, err := openRunner()
	if err != nil {
		return err
	}
	defer ledger.Close()

	results, err := runner.Retry(context.Background(), input, section, cfg.MaxRetryBytes)
	if err != nil {
		return err
	}

	var recovered, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else {
			recovered++
		}
	}
	fmt.Printf("Retry finished: %d reprocessed, %d still failing\n", recovered, failed)
	return nil
}

func init() {
	retryCmd.Flags().String("section", "letter", "section whose absence triggers a retry (letter or mdna)")
	retryCmd.Flags().String("input", "", "directory tree to search for moved source PDFs")
	retryCmd.Flags().Int64("max-size", config.DefaultMaxRetryMB, "size cap in megabytes for retried files")
	retryCmd.Flags().String("output", config.DefaultOutputDir, "output directory root")
	retryCmd.Flags().Int("workers", config.DefaultWorkers, "concurrent documents")
	retryCmd.Flags().String("ocr-lang", "", "OCR language for scanned documents (implies OCR)")
	retryCmd.Flags().String("keywords", "", "YAML keyword table overriding the built-in detection phrases")

	rootCmd.AddCommand(retryCmd)
}
