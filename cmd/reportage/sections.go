package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/avinse/reportage"
	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/model"
	"github.com/avinse/reportage/sections"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <pdf>",
	Short: "Print the detected section boundaries for one document",
	Long: `Sections runs extraction and boundary detection for a single PDF
and prints the result without writing any outputs or touching the run
ledger.`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, "keywords", "ocr-lang")

	proc, err := newProcessor(config.Load(), args[0])
	if err != nil {
		return err
	}

	boundaries, err := proc.Boundaries()
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		views := make(map[string]model.SectionBoundary, len(boundaries))
		for t, b := range boundaries {
			views[t.String()] = b
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	printBoundaries(boundaries)
	return nil
}

// newProcessor builds the configured processing handle for one
// document.
func newProcessor(cfg config.Config, path string) (*reportage.Processor, error) {
	proc := reportage.Open(path)
	if cfg.KeywordsFile != "" {
		kw, err := sections.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		proc = proc.WithDetector(sections.NewDetectorWithKeywords(kw))
	}
	if cfg.OCRLang != "" {
		proc = proc.OCRLanguage(cfg.OCRLang)
	} else if cfg.OCREnabled {
		proc = proc.OCR()
	}
	return proc, nil
}

func init() {
	sectionsCmd.Flags().String("keywords", "", "YAML keyword table overriding the built-in detection phrases")
	sectionsCmd.Flags().String("ocr-lang", "", "OCR language for scanned documents (implies OCR)")
	sectionsCmd.Flags().Bool("json", false, "print boundaries as JSON")

	rootCmd.AddCommand(sectionsCmd)
}
