// Package pagetext assembles positioned words into per-page text.
//
// Scanned annual reports are frequently digitized two report sheets per
// PDF page, and narrative pages often set their text in columns. Assembly
// therefore looks at the horizontal distribution of word centers before
// reading anything: a wide gap splits the page into side-by-side sheets,
// a narrower gap splits a sheet into columns, and each fragment is read
// top to bottom before moving right. The package also computes the
// document-level extraction statistics used for quality reporting.
package pagetext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avinse/reportage/layout"
	"github.com/avinse/reportage/model"
)

// PageBreak separates the texts of side-by-side sheets detected on a
// single PDF page.
const PageBreak = "\n\n=== PAGE BREAK ===\n\n"

const (
	// minColumnWords is the smallest column accepted inside a sheet.
	minColumnWords = 5

	// minPageColumnWords is the smallest column accepted when splitting a
	// whole page.
	minPageColumnWords = 10
)

// Config holds configuration for page text assembly.
type Config struct {
	// SheetGap is the horizontal gap, in device units, that splits a page
	// into side-by-side sheets when found inside the central band.
	// Default: 80.
	SheetGap float64

	// ColumnGap is the gap that splits a sheet into columns. Default: 30.
	ColumnGap float64

	// LineTolerance is the vertical tolerance for grouping words into
	// lines. Default: 5.
	LineTolerance float64

	// MinAnalysisWords is the word count below which gap analysis is
	// skipped and the page assembles as a single block. Default: 20.
	MinAnalysisWords int
}

// DefaultConfig returns the assembly defaults.
func DefaultConfig() Config {
	return Config{
		SheetGap:         80,
		ColumnGap:        30,
		LineTolerance:    5,
		MinAnalysisWords: 20,
	}
}

// Assembler builds reading-order page text from positioned words.
type Assembler struct {
	config Config
	lines  *layout.Extractor
}

// NewAssembler creates an assembler with default configuration.
func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultConfig())
}

// NewAssemblerWithConfig creates an assembler with custom configuration.
// Zero or negative fields fall back to their defaults.
func NewAssemblerWithConfig(config Config) *Assembler {
	def := DefaultConfig()
	if config.SheetGap <= 0 {
		config.SheetGap = def.SheetGap
	}
	if config.ColumnGap <= 0 {
		config.ColumnGap = def.ColumnGap
	}
	if config.LineTolerance <= 0 {
		config.LineTolerance = def.LineTolerance
	}
	if config.MinAnalysisWords <= 0 {
		config.MinAnalysisWords = def.MinAnalysisWords
	}
	return &Assembler{
		config: config,
		lines:  layout.NewExtractorWithConfig(layout.Config{LineTolerance: config.LineTolerance}),
	}
}

// PageText assembles one page's words into text. Sheets split on gaps
// wider than SheetGap inside the 5%-95% width band and join with
// [PageBreak]; a page without sheet gaps splits into two columns on the
// widest gap over ColumnGap inside the 10%-90% band, provided both sides
// hold more than ten words. Pages with fewer than MinAnalysisWords words
// skip the analysis entirely.
func (a *Assembler) PageText(words []model.Word, pageWidth float64) string {
	if len(words) == 0 {
		return ""
	}
	if len(words) < a.config.MinAnalysisWords || pageWidth <= 0 {
		return a.linesText(words)
	}

	centers := wordCenters(words)

	if gaps := findGaps(centers, 0.05*pageWidth, 0.95*pageWidth, a.config.SheetGap); len(gaps) > 0 {
		return a.sheetsText(words, gaps, pageWidth)
	}

	if gaps := findGaps(centers, 0.10*pageWidth, 0.90*pageWidth, a.config.ColumnGap); len(gaps) > 0 {
		left, right := splitAt(words, gaps[0].mid)
		if len(left) > minPageColumnWords && len(right) > minPageColumnWords {
			return strings.TrimSpace(a.linesText(left)) + "\n\n" + strings.TrimSpace(a.linesText(right))
		}
	}

	return a.linesText(words)
}

// sheetsText splits the page at every sheet gap and assembles the sheets
// left to right.
func (a *Assembler) sheetsText(words []model.Word, gaps []gap, pageWidth float64) string {
	splits := make([]float64, len(gaps))
	for i, g := range gaps {
		splits[i] = g.mid
	}
	sort.Float64s(splits)

	bounds := make([]float64, 0, len(splits)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, splits...)
	bounds = append(bounds, pageWidth)

	var parts []string
	for i := 0; i < len(bounds)-1; i++ {
		sheet := wordsInBand(words, bounds[i], bounds[i+1])
		if len(sheet) == 0 {
			continue
		}
		if text := strings.TrimSpace(a.sheetText(sheet, bounds[i], bounds[i+1])); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return a.linesText(words)
	}
	return strings.Join(parts, PageBreak)
}

// sheetText assembles one sheet, splitting it into two columns when the
// center distribution shows a wide enough gap and both columns hold more
// than five words.
func (a *Assembler) sheetText(words []model.Word, minX, maxX float64) string {
	if len(words) > a.config.MinAnalysisWords {
		if gaps := findGaps(wordCenters(words), minX, maxX, a.config.ColumnGap); len(gaps) > 0 {
			left, right := splitAt(words, gaps[0].mid)
			if len(left) > minColumnWords && len(right) > minColumnWords {
				return a.linesText(left) + "\n\n" + a.linesText(right)
			}
		}
	}
	return a.linesText(words)
}

// linesText renders words as lines, top to bottom.
func (a *Assembler) linesText(words []model.Word) string {
	blocks := a.lines.GroupWords(words, 0)
	if len(blocks) == 0 {
		return ""
	}
	texts := make([]string, len(blocks))
	for i, b := range blocks {
		texts[i] = b.Text
	}
	return strings.Join(texts, "\n")
}

// FullText joins page texts under per-page headers for whole-document
// output.
func FullText(pages []model.PageText) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("--- Page %d ---\n%s", p.Page, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

// ByPage returns the record for the 1-based page number.
func ByPage(pages []model.PageText, page int) (model.PageText, bool) {
	for _, p := range pages {
		if p.Page == page {
			return p, true
		}
	}
	return model.PageText{}, false
}
