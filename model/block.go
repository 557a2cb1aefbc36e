package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Word is one positioned word as delivered by the PDF provider.
// Coordinates are top-referenced device units. Height is the glyph height
// when the provider knows it; a value <= 0 means unknown, in which case
// Bottom-Top is the best estimate.
type Word struct {
	Text   string
	X0     float64
	X1     float64
	Top    float64
	Bottom float64
	Height float64
}

// TextBlock is one visually grouped line of text. Blocks are created once
// during layout extraction and never mutated; document order is reading
// order (page ascending, then top to bottom, then left to right).
type TextBlock struct {
	// Text is the raw line text, member words joined by single spaces.
	Text string

	// Page is the 1-based page number.
	Page int

	// FontSize is the line's font size in points, taken from the height
	// of the line's first word.
	FontSize float64

	// Y is the top of the line in device units from the page top.
	Y float64

	// X is the left edge of the line.
	X float64

	// BBox is the bounding box covering every member word.
	BBox BBox
}

var nonWordRE = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// NormalizeText lowercases s, replaces every punctuation run with a single
// space, and collapses surrounding whitespace. Keyword tables and block
// text pass through the same normalization so containment checks compare
// like with like.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = nonWordRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalized returns the block text normalized for keyword matching.
func (b TextBlock) Normalized() string {
	return NormalizeText(b.Text)
}

// Length returns the character count of the raw text.
func (b TextBlock) Length() int {
	return utf8.RuneCountInString(b.Text)
}
