package model

import "time"

// Processing status values recorded with each document run.
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// DocInfo carries the PDF metadata surfaced in exports.
type DocInfo struct {
	Title    string
	Author   string
	Created  time.Time
	FileSize int64
}

// Report is the output bundle for one processed document.
type Report struct {
	// Source is the path of the input PDF.
	Source string

	// Company and Year identify the report, parsed from the source path.
	Company string
	Year    int

	// Kind is the classified document kind.
	Kind DocKind

	// Info holds metadata read from the PDF itself.
	Info DocInfo

	// Pages holds the raw extracted pages; Cleaned the same pages after
	// text cleanup.
	Pages   []PageText
	Cleaned []PageText

	// Stats summarizes extraction coverage over the raw pages.
	Stats ExtractionStats

	// Boundaries maps each detected section type to its boundary. A
	// section that was not found is absent from the map.
	Boundaries map[SectionType]SectionBoundary

	// Sections holds the sliced content for each extracted boundary.
	Sections []SectionContent

	// Tables holds the tabular regions detected on each page, in page
	// order.
	Tables []Table

	// Warnings accumulates non-fatal issues hit during processing.
	Warnings []Warning

	// StartedAt and FinishedAt bracket the processing run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Status is one of the Status constants.
	Status string
}

// Elapsed returns the processing duration.
func (r *Report) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Section returns the sliced content for the given type.
func (r *Report) Section(t SectionType) (SectionContent, bool) {
	for _, s := range r.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return SectionContent{}, false
}
