// Package docclass decides whether a PDF carries an extractable text layer
// or is a scan that needs OCR. Classification samples the leading pages and
// counts how many yield a useful amount of direct text.
package docclass

import (
	"strings"

	"github.com/avinse/reportage/model"
)

const (
	// SampleSize caps how many leading pages are examined.
	SampleSize = 10

	// MinTextChars is the stripped character count a sampled page must
	// exceed to count as a text page.
	MinTextChars = 100
)

// TextSource yields per-page plain text. *reader.Document satisfies it.
type TextSource interface {
	PageCount() int
	PlainText(page int) (string, error)
}

// Diagnostics reports what the classifier saw in the sampled pages.
type Diagnostics struct {
	// TotalPages is the page count of the whole document.
	TotalPages int

	// TextPages is the number of sampled pages that cleared MinTextChars.
	TextPages int

	// TotalChars is the stripped character total across sampled pages.
	TotalChars int

	// AvgChars is TotalChars divided by the sample size.
	AvgChars float64
}

// Classify samples the first min(SampleSize, PageCount) pages and returns
// Text when at least half of them carry direct text, Scanned otherwise.
// Unknown is returned only when there is nothing to sample. Pages whose
// text cannot be parsed simply do not count toward the text total.
func Classify(src TextSource) (model.DocKind, Diagnostics) {
	var diag Diagnostics
	diag.TotalPages = src.PageCount()

	sample := min(SampleSize, diag.TotalPages)
	if sample <= 0 {
		return model.KindUnknown, diag
	}

	for page := 1; page <= sample; page++ {
		text, err := src.PlainText(page)
		if err != nil {
			continue
		}
		count := len(strings.TrimSpace(text))
		diag.TotalChars += count
		if count > MinTextChars {
			diag.TextPages++
		}
	}
	diag.AvgChars = float64(diag.TotalChars) / float64(sample)

	if diag.TextPages*2 >= sample {
		return model.KindText, diag
	}
	return model.KindScanned, diag
}
