package sections

import (
	"strings"

	"github.com/avinse/reportage/model"
)

// Scoring weights for candidate headings. Bonuses are additive on the
// base and the sum is capped at 1.0, which keeps confidence a monotonic
// function of the evidence.
const (
	scoreBase = 0.5

	// Keyword match quality.
	scoreExactMatch = 0.30
	scoreAffixMatch = 0.20
	scoreSubstring  = 0.10

	// Font-size prominence relative to the page median.
	scoreFontHigh = 0.15 // ratio > 1.5
	scoreFontMid  = 0.10 // ratio > 1.2
	scoreFontLow  = 0.05 // ratio > 1.05

	// Position: letters score by page, other sections by height on the
	// page.
	scorePageEarly = 0.10 // page <= 10
	scorePageMid   = 0.05 // page <= 15
	scoreYHigh     = 0.10 // y < 150
	scoreYMid      = 0.05 // y < 250

	// Line length: headings are short.
	scoreShortLine  = 0.05 // length < 40
	scoreMediumLine = 0.03 // length < 60
)

// Candidate is one keyword-bearing heading with its confidence score.
type Candidate struct {
	// Block is the heading block.
	Block model.TextBlock

	// Keyword is the normalized phrase the block matched.
	Keyword string

	// Confidence is the score in [0, 1].
	Confidence float64
}

// Matcher scans block sequences for section headings and scores them.
type Matcher struct {
	classifier *Classifier
	keywords   *Keywords
}

// NewMatcher creates a matcher with a default classifier and the
// default keyword tables.
func NewMatcher() *Matcher {
	return NewMatcherWith(NewClassifier(), DefaultKeywords())
}

// NewMatcherWith creates a matcher with a custom classifier and keyword
// tables.
func NewMatcherWith(classifier *Classifier, keywords *Keywords) *Matcher {
	return &Matcher{classifier: classifier, keywords: keywords}
}

// FindBest returns the highest-scoring candidate heading for the given
// section type, or false when no block both passes the classifier and
// contains a section keyword. Score ties resolve to the earliest
// candidate in reading order. blocks must be in reading order.
func (m *Matcher) FindBest(blocks []model.TextBlock, section model.SectionType) (Candidate, bool) {
	return m.findBest(blocks, indexPages(blocks), section)
}

func (m *Matcher) findBest(blocks []model.TextBlock, idx *pageIndex, section model.SectionType) (Candidate, bool) {
	keywords := m.keywords.ForSection(section)
	if len(keywords) == 0 {
		return Candidate{}, false
	}

	var best Candidate
	found := false

	for _, block := range blocks {
		if !m.classifier.IsPotentialHeading(block, idx.onPage(block.Page), section) {
			continue
		}

		normalized := block.Normalized()
		for _, keyword := range keywords {
			if !strings.Contains(normalized, keyword) {
				continue
			}
			confidence := m.score(block, keyword, normalized, idx.median(block.Page), section)
			if !found || confidence > best.Confidence {
				best = Candidate{Block: block, Keyword: keyword, Confidence: confidence}
				found = true
			}
			// One candidate per block: the first matching phrase wins.
			break
		}
	}

	return best, found
}

// score computes the confidence for one keyword hit.
func (m *Matcher) score(block model.TextBlock, keyword, normalized string, median float64, section model.SectionType) float64 {
	confidence := scoreBase

	switch {
	case normalized == keyword:
		confidence += scoreExactMatch
	case strings.HasPrefix(normalized, keyword) || strings.HasSuffix(normalized, keyword):
		confidence += scoreAffixMatch
	default:
		confidence += scoreSubstring
	}

	if median > 0 {
		switch ratio := block.FontSize / median; {
		case ratio > 1.5:
			confidence += scoreFontHigh
		case ratio > 1.2:
			confidence += scoreFontMid
		case ratio > 1.05:
			confidence += scoreFontLow
		}
	}

	if section == model.SectionLetter {
		switch {
		case block.Page <= 10:
			confidence += scorePageEarly
		case block.Page <= 15:
			confidence += scorePageMid
		}
	} else {
		switch {
		case block.Y < 150:
			confidence += scoreYHigh
		case block.Y < 250:
			confidence += scoreYMid
		}
	}

	switch {
	case block.Length() < 40:
		confidence += scoreShortLine
	case block.Length() < 60:
		confidence += scoreMediumLine
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
