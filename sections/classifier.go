package sections

import (
	"sort"

	"github.com/avinse/reportage/model"
)

// ClassifierConfig holds the thresholds for heading candidacy checks.
type ClassifierConfig struct {
	// MaxLength is the hard character cap for any heading line.
	// Default: 150.
	MaxLength int

	// MaxY rejects blocks positioned lower than this many device units
	// from the page top. Applies to MD&A and generic checks only;
	// letter headings may sit anywhere on the page.
	// Default: 350.
	MaxY float64

	// MinFontRatio is the minimum font size relative to the page median
	// for MD&A and generic checks.
	// Default: 1.1.
	MinFontRatio float64

	// LetterMaxPage rejects letter headings past this page. Stakeholder
	// letters sit in the front matter of an annual report.
	// Default: 20.
	LetterMaxPage int

	// LetterMinFontRatio is the font bar for letter headings.
	// Default: 1.05.
	LetterMinFontRatio float64

	// LetterShortLength accepts a letter heading shorter than this many
	// characters even when it misses the font bar.
	// Default: 50.
	LetterShortLength int
}

// DefaultClassifierConfig returns the classifier defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MaxLength:          150,
		MaxY:               350,
		MinFontRatio:       1.1,
		LetterMaxPage:      20,
		LetterMinFontRatio: 1.05,
		LetterShortLength:  50,
	}
}

// Classifier decides whether a text block could be a section heading.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultClassifierConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// IsPotentialHeading reports whether block could open a section of the
// given type. pageBlocks must hold every block sharing the block's
// page; the page median font size is derived from them.
//
// Letter checks trade position strictness for a lower font bar plus a
// short-line fallback, but never accept a block past LetterMaxPage.
// MD&A checks, which also serve as the generic context-free check for
// [model.SectionUnknown], require the block to sit in the upper portion
// of the page and clear the higher font bar.
func (c *Classifier) IsPotentialHeading(block model.TextBlock, pageBlocks []model.TextBlock, section model.SectionType) bool {
	if block.Length() > c.config.MaxLength {
		return false
	}

	median := MedianFontSize(pageBlocks)

	if section == model.SectionLetter {
		if block.Page > c.config.LetterMaxPage {
			return false
		}
		return block.FontSize >= c.config.LetterMinFontRatio*median ||
			block.Length() < c.config.LetterShortLength
	}

	if block.Y > c.config.MaxY {
		return false
	}
	return block.FontSize >= c.config.MinFontRatio*median
}

// MedianFontSize returns the page median font size: the middle element,
// by integer division, of the sorted size list. Returns 0 when blocks
// is empty.
func MedianFontSize(blocks []model.TextBlock) float64 {
	if len(blocks) == 0 {
		return 0
	}
	sizes := make([]float64, len(blocks))
	for i, b := range blocks {
		sizes[i] = b.FontSize
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}
