package sections

import "github.com/avinse/reportage/model"

// MethodLayoutKeywords tags boundaries found by the layout-and-keyword
// heuristics in this package.
const MethodLayoutKeywords = "layout_and_keywords"

// Detector runs matching and end location across every supported
// section type. It holds no per-document state, so one Detector may be
// reused across documents and goroutines.
type Detector struct {
	matcher *Matcher
	end     *EndLocator
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return NewDetectorWithKeywords(DefaultKeywords())
}

// NewDetectorWithKeywords creates a detector with default thresholds
// and the given phrase tables. Scoring weights are unaffected; only
// the phrases change.
func NewDetectorWithKeywords(keywords *Keywords) *Detector {
	classifier := NewClassifier()
	return NewDetectorWith(
		NewMatcherWith(classifier, keywords),
		NewEndLocatorWith(DefaultEndLocatorConfig(), classifier, keywords),
	)
}

// NewDetectorWith creates a detector from explicitly configured parts.
func NewDetectorWith(matcher *Matcher, end *EndLocator) *Detector {
	return &Detector{matcher: matcher, end: end}
}

// Detect finds the boundary for every supported section type. blocks
// must be the full document in reading order. Sections that were not
// found are absent from the returned map; a document with no blocks
// yields an empty map.
func (d *Detector) Detect(blocks []model.TextBlock) map[model.SectionType]model.SectionBoundary {
	boundaries := make(map[model.SectionType]model.SectionBoundary)
	if len(blocks) == 0 {
		return boundaries
	}

	idx := indexPages(blocks)

	for _, section := range model.SectionTypes() {
		if boundary, ok := d.detectOne(blocks, idx, section); ok {
			boundaries[section] = boundary
		}
	}

	return boundaries
}

// DetectOne finds the boundary for a single section type. The second
// return value reports whether the section was found.
func (d *Detector) DetectOne(blocks []model.TextBlock, section model.SectionType) (model.SectionBoundary, bool) {
	if len(blocks) == 0 {
		return model.SectionBoundary{}, false
	}
	return d.detectOne(blocks, indexPages(blocks), section)
}

func (d *Detector) detectOne(blocks []model.TextBlock, idx *pageIndex, section model.SectionType) (model.SectionBoundary, bool) {
	candidate, ok := d.matcher.findBest(blocks, idx, section)
	if !ok {
		return model.SectionBoundary{}, false
	}

	endPage := d.end.locate(blocks, idx, section, candidate.Block.Page)

	return model.SectionBoundary{
		Type:        section,
		StartPage:   candidate.Block.Page,
		EndPage:     endPage,
		Confidence:  candidate.Confidence,
		HeadingText: candidate.Block.Text,
		Method:      MethodLayoutKeywords,
	}, true
}
