// Package clean repairs extracted page text before sectioning and export.
//
// PDF extraction leaves artifacts behind: form feed characters, zero-width
// runes, sentences hard-wrapped mid-clause, and running headers repeated on
// every page. The Cleaner applies a fixed sequence of repairs to each page
// and strips lines that recur across most of the document.
package clean

import (
	"strings"

	"github.com/avinse/reportage/model"
)

const (
	// DefaultHeaderFooterThreshold is the fraction of pages a line must
	// appear on before it counts as a running header or footer.
	DefaultHeaderFooterThreshold = 0.7

	// DefaultMinLineLength is the shortest line RemoveShortLines keeps.
	// Pattern detection also ignores lines at or below this length.
	DefaultMinLineLength = 3
)

const (
	// Lines shorter than this that do not close a clause are candidates
	// for merging with their continuation.
	brokenLineLimit = 40

	// A continuation line must be longer than this to be merged.
	continuationMin = 5

	// Lines longer than this containing double spaces keep their internal
	// alignment; shorter lines have space runs collapsed.
	alignedLineMin = 20

	// How many leading and trailing non-blank lines per page feed the
	// repeated header and footer tallies.
	edgeLineCount = 3

	clauseEnders = ".!?:;,"
)

// Config adjusts the cleaning thresholds.
type Config struct {
	// HeaderFooterThreshold is the fraction of pages a line must recur on
	// before it is stripped as a running header or footer. Default: 0.7.
	HeaderFooterThreshold float64

	// MinLineLength is the shortest line RemoveShortLines keeps.
	// Default: 3.
	MinLineLength int
}

// DefaultConfig returns the thresholds used by New.
func DefaultConfig() Config {
	return Config{
		HeaderFooterThreshold: DefaultHeaderFooterThreshold,
		MinLineLength:         DefaultMinLineLength,
	}
}

// Report summarizes the repeated elements found while cleaning a document.
type Report struct {
	// HeaderPatterns is the number of distinct repeated header lines
	// stripped from the document.
	HeaderPatterns int

	// FooterPatterns is the number of distinct repeated footer lines
	// stripped from the document.
	FooterPatterns int
}

// Cleaner applies text repairs to extracted pages.
type Cleaner struct {
	config Config
}

// New returns a Cleaner with default thresholds.
func New() *Cleaner {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns a Cleaner with the given thresholds. Zero or
// negative fields fall back to their defaults.
func NewWithConfig(config Config) *Cleaner {
	defaults := DefaultConfig()
	if config.HeaderFooterThreshold <= 0 {
		config.HeaderFooterThreshold = defaults.HeaderFooterThreshold
	}
	if config.MinLineLength <= 0 {
		config.MinLineLength = defaults.MinLineLength
	}
	return &Cleaner{config: config}
}

// Text applies the document-local repairs to a single block of text: noise
// removal, broken-line merging, then whitespace normalization. Header and
// footer stripping needs the whole document and happens in Pages.
func (c *Cleaner) Text(text string) string {
	text = removeNoise(text)
	text = mergeBrokenLines(text)
	text = normalizeWhitespace(text)
	return text
}

// Pages cleans every page and strips lines that recur across the document.
// Repeated headers and footers are detected on the raw text before any
// per-page repair runs. Page numbering and extraction method carry over
// unchanged; only the text differs.
func (c *Cleaner) Pages(pages []model.PageText) ([]model.PageText, Report) {
	patterns := c.detectRepeated(pages)
	report := Report{
		HeaderPatterns: len(patterns.headers),
		FooterPatterns: len(patterns.footers),
	}

	cleaned := make([]model.PageText, len(pages))
	for i, page := range pages {
		text := c.Text(page.Text)
		text = patterns.strip(text)
		text = NormalizeUnicode(text)
		cleaned[i] = model.PageText{Page: page.Page, Text: text, Method: page.Method}
	}
	return cleaned, report
}

// RemoveShortLines drops lines whose trimmed length falls below the
// configured minimum. Blank lines survive so paragraph breaks stay intact.
func (c *Cleaner) RemoveShortLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) >= c.config.MinLineLength {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
