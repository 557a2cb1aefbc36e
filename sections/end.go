package sections

import (
	"strings"

	"github.com/avinse/reportage/model"
)

// EndLocatorConfig holds the thresholds for the letter-specific end
// triggers. Letters are shorter and less rigidly formatted than the
// MD&A, so they get extra ways to close.
type EndLocatorConfig struct {
	// NewNarrativeFontRatio is the font bar, relative to the page
	// median, for a new-narrative phrase to close a letter.
	// Default: 1.5.
	NewNarrativeFontRatio float64

	// BreakFontRatio is the font bar for the unlabeled section-break
	// fallback.
	// Default: 1.8.
	BreakFontRatio float64

	// BreakMinPageGap: the fallback only considers blocks more than
	// this many pages past the letter start.
	// Default: 3.
	BreakMinPageGap int

	// BreakMaxLength is the line-length cap for the fallback.
	// Default: 50.
	BreakMaxLength int

	// BreakHeadingGap: the fallback block must sit more than this many
	// pages after the last heading-like block seen.
	// Default: 1.
	BreakHeadingGap int

	// MaxLetterSpan: past this many pages after the start, any
	// heading-like block under ForceEndLength closes the letter.
	// Default: 25.
	MaxLetterSpan int

	// ForceEndLength is the line-length cap for the span-limit close.
	// Default: 80.
	ForceEndLength int
}

// DefaultEndLocatorConfig returns the end-locator defaults.
func DefaultEndLocatorConfig() EndLocatorConfig {
	return EndLocatorConfig{
		NewNarrativeFontRatio: 1.5,
		BreakFontRatio:        1.8,
		BreakMinPageGap:       3,
		BreakMaxLength:        50,
		BreakHeadingGap:       1,
		MaxLetterSpan:         25,
		ForceEndLength:        80,
	}
}

// EndLocator resolves where a section ends once its start page is
// known.
type EndLocator struct {
	config     EndLocatorConfig
	classifier *Classifier
	keywords   *Keywords
}

// NewEndLocator creates an end locator with default configuration.
func NewEndLocator() *EndLocator {
	return NewEndLocatorWith(DefaultEndLocatorConfig(), NewClassifier(), DefaultKeywords())
}

// NewEndLocatorWith creates an end locator from explicit parts. The
// classifier is used for the generic heading-likeness check on trigger
// blocks.
func NewEndLocatorWith(config EndLocatorConfig, classifier *Classifier, keywords *Keywords) *EndLocator {
	return &EndLocator{config: config, classifier: classifier, keywords: keywords}
}

// Locate returns the inclusive end page for a section of the given type
// starting on startPage. blocks must be the full document in reading
// order.
//
// Blocks on pages after startPage are scanned in order; the first
// trigger wins and ends the section on the page before it:
//
//  1. a financial-statement keyword in a heading-like block
//  2. (letters) a structural report part in a heading-like block
//  3. (letters) a new-narrative phrase in a prominent heading-like block
//  4. (letters) an unlabeled prominent break well past the start
//  5. (letters) any short heading-like block past the span limit
//  6. a rival section's own heading phrase in a heading-like block
//
// With no trigger the section runs to the last page holding any block;
// with no subsequent blocks at all it is a single-page section and
// startPage is returned.
func (l *EndLocator) Locate(blocks []model.TextBlock, section model.SectionType, startPage int) int {
	return l.locate(blocks, indexPages(blocks), section, startPage)
}

func (l *EndLocator) locate(blocks []model.TextBlock, idx *pageIndex, section model.SectionType, startPage int) int {
	lastPage := 0
	lastHeadingPage := startPage

	for _, block := range blocks {
		if block.Page <= startPage {
			continue
		}
		if block.Page > lastPage {
			lastPage = block.Page
		}

		headingLike := l.classifier.IsPotentialHeading(block, idx.onPage(block.Page), model.SectionUnknown)
		if !headingLike {
			continue
		}

		normalized := block.Normalized()

		if containsAny(normalized, l.keywords.End) {
			return block.Page - 1
		}

		if section == model.SectionLetter {
			if containsAny(normalized, l.keywords.Structural) {
				return block.Page - 1
			}

			median := idx.median(block.Page)

			if containsAny(normalized, l.keywords.NewNarrative) &&
				median > 0 && block.FontSize >= l.config.NewNarrativeFontRatio*median {
				return block.Page - 1
			}

			if block.Page-startPage > l.config.BreakMinPageGap &&
				median > 0 && block.FontSize >= l.config.BreakFontRatio*median &&
				block.Length() < l.config.BreakMaxLength &&
				block.Page-lastHeadingPage > l.config.BreakHeadingGap {
				return block.Page - 1
			}

			if block.Page-startPage > l.config.MaxLetterSpan &&
				block.Length() < l.config.ForceEndLength {
				return block.Page - 1
			}
		}

		if l.matchesOtherSection(normalized, section) {
			return block.Page - 1
		}

		lastHeadingPage = block.Page
	}

	if lastPage > 0 {
		return lastPage
	}
	return startPage
}

// matchesOtherSection reports whether normalized contains a heading
// phrase belonging to a section type other than current.
func (l *EndLocator) matchesOtherSection(normalized string, current model.SectionType) bool {
	for _, other := range model.SectionTypes() {
		if other == current {
			continue
		}
		if containsAny(normalized, l.keywords.ForSection(other)) {
			return true
		}
	}
	return false
}

// containsAny reports whether text contains any of the phrases.
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
