package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/model"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <pdf>",
	Short: "Assert expected section boundaries for one document",
	Long: `Verify detects section boundaries and compares them against --expect
assertions of the form section=start-end (for example letter=6-11) or
section=none. It exits nonzero on any mismatch, which makes it usable
from regression scripts over a corpus of known documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, "keywords", "ocr-lang")

	asserts, _ := cmd.Flags().GetStringArray("expect")
	if len(asserts) == 0 {
		return fmt.Errorf("at least one --expect assertion is required")
	}
	expectations := make([]expectation, 0, len(asserts))
	for _, a := range asserts {
		exp, err := parseExpectation(a)
		if err != nil {
			return err
		}
		expectations = append(expectations, exp)
	}

	proc, err := newProcessor(config.Load(), args[0])
	if err != nil {
		return err
	}
	boundaries, err := proc.Boundaries()
	if err != nil {
		return err
	}

	failures := 0
	for _, exp := range expectations {
		b, found := boundaries[exp.section]
		switch {
		case exp.absent && !found:
			fmt.Printf("PASS %s absent\n", exp.section)
		case exp.absent:
			fmt.Printf("FAIL %s expected absent, found pages %d-%d\n", exp.section, b.StartPage, b.EndPage)
			failures++
		case !found:
			fmt.Printf("FAIL %s expected pages %d-%d, not found\n", exp.section, exp.start, exp.end)
			failures++
		case b.StartPage != exp.start || b.EndPage != exp.end:
			fmt.Printf("FAIL %s expected pages %d-%d, got %d-%d\n", exp.section, exp.start, exp.end, b.StartPage, b.EndPage)
			failures++
		default:
			fmt.Printf("PASS %s pages %d-%d (confidence %.2f)\n", exp.section, b.StartPage, b.EndPage, b.Confidence)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d boundary assertion(s) failed", failures)
	}
	return nil
}

// expectation is one parsed --expect assertion.
type expectation struct {
	section    model.SectionType
	start, end int
	absent     bool
}

// parseExpectation parses "section=start-end" or "section=none".
func parseExpectation(s string) (expectation, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok {
		return expectation{}, fmt.Errorf("invalid expectation %q: want section=start-end or section=none", s)
	}
	section, err := model.ParseSectionType(name)
	if err != nil {
		return expectation{}, err
	}
	if spec == "none" {
		return expectation{section: section, absent: true}, nil
	}
	first, second, ok := strings.Cut(spec, "-")
	if !ok {
		return expectation{}, fmt.Errorf("invalid page range %q: want start-end", spec)
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return expectation{}, fmt.Errorf("invalid start page %q", first)
	}
	end, err := strconv.Atoi(second)
	if err != nil {
		return expectation{}, fmt.Errorf("invalid end page %q", second)
	}
	if start < 1 || end < start {
		return expectation{}, fmt.Errorf("invalid page range %q", spec)
	}
	return expectation{section: section, start: start, end: end}, nil
}

func init() {
	verifyCmd.Flags().StringArray("expect", nil, "expected boundary, section=start-end or section=none (repeatable)")
	verifyCmd.Flags().String("keywords", "", "YAML keyword table overriding the built-in detection phrases")
	verifyCmd.Flags().String("ocr-lang", "", "OCR language for scanned documents (implies OCR)")

	rootCmd.AddCommand(verifyCmd)
}
