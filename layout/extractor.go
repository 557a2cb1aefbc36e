// Package layout groups positioned words into text lines.
//
// Annual reports carry no structural tagging, so every downstream
// judgement (is this line a heading, how prominent is it) starts from the
// visual grouping this package performs: words that sit on the same
// baseline become one [model.TextBlock] with a font size and bounding box.
package layout

import (
	"sort"
	"strings"

	"github.com/avinse/reportage/model"
)

// Config holds configuration for line grouping.
type Config struct {
	// LineTolerance is the maximum difference between a word's top and
	// the line's top for the word to join the line, in device units.
	// Default: 3.
	LineTolerance float64
}

// DefaultConfig returns the grouping defaults.
func DefaultConfig() Config {
	return Config{
		LineTolerance: 3.0,
	}
}

// Extractor builds TextBlocks from provider word streams.
type Extractor struct {
	config Config
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return &Extractor{config: DefaultConfig()}
}

// NewExtractorWithConfig creates an extractor with custom configuration.
func NewExtractorWithConfig(config Config) *Extractor {
	if config.LineTolerance <= 0 {
		config.LineTolerance = DefaultConfig().LineTolerance
	}
	return &Extractor{config: config}
}

// GroupWords groups one page's words into ordered TextBlocks.
//
// Words are sorted by (top, x0); a word starts a new line when its top
// differs from the current line's top by more than the tolerance. Member
// texts join with single spaces. The first word's height becomes the
// line's font size, falling back to the page's median word height when
// the first word has no usable height. A page with no words produces no
// blocks.
func (e *Extractor) GroupWords(words []model.Word, page int) []model.TextBlock {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	medianHeight := medianWordHeight(sorted)

	var blocks []model.TextBlock
	var line []model.Word
	lineTop := 0.0

	flush := func() {
		if len(line) == 0 {
			return
		}
		blocks = append(blocks, e.buildBlock(line, page, medianHeight))
		line = line[:0]
	}

	for _, w := range sorted {
		if len(line) == 0 {
			line = append(line, w)
			lineTop = w.Top
			continue
		}
		if abs(w.Top-lineTop) <= e.config.LineTolerance {
			line = append(line, w)
			continue
		}
		flush()
		line = append(line, w)
		lineTop = w.Top
	}
	flush()

	return blocks
}

// buildBlock assembles one TextBlock from the words of a line group.
func (e *Extractor) buildBlock(line []model.Word, page int, medianHeight float64) model.TextBlock {
	texts := make([]string, len(line))
	bbox := model.BBox{
		X0: line[0].X0,
		Y0: line[0].Top,
		X1: line[0].X1,
		Y1: line[0].Bottom,
	}
	for i, w := range line {
		texts[i] = w.Text
		if w.X0 < bbox.X0 {
			bbox.X0 = w.X0
		}
		if w.Top < bbox.Y0 {
			bbox.Y0 = w.Top
		}
		if w.X1 > bbox.X1 {
			bbox.X1 = w.X1
		}
		if w.Bottom > bbox.Y1 {
			bbox.Y1 = w.Bottom
		}
	}

	fontSize := wordHeight(line[0])
	if fontSize <= 0 {
		fontSize = medianHeight
	}

	return model.TextBlock{
		Text:     strings.Join(texts, " "),
		Page:     page,
		FontSize: fontSize,
		Y:        line[0].Top,
		X:        bbox.X0,
		BBox:     bbox,
	}
}

// wordHeight returns the word's glyph height, estimating from the
// bounding box when the provider did not supply one.
func wordHeight(w model.Word) float64 {
	if w.Height > 0 {
		return w.Height
	}
	return w.Bottom - w.Top
}

// medianWordHeight returns the middle element, by integer division, of
// the sorted heights over all words with a usable height, or 0 if none
// have one.
func medianWordHeight(words []model.Word) float64 {
	heights := make([]float64, 0, len(words))
	for _, w := range words {
		if h := wordHeight(w); h > 0 {
			heights = append(heights, h)
		}
	}
	if len(heights) == 0 {
		return 0
	}
	sort.Float64s(heights)
	return heights[len(heights)/2]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
