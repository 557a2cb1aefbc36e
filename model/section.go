package model

import (
	"fmt"
	"strings"
)

// SectionType identifies a narrative section of an annual report.
type SectionType int

const (
	// SectionUnknown is a non-matchable sentinel.
	SectionUnknown SectionType = iota
	// SectionMDNA is the Management Discussion & Analysis section.
	SectionMDNA
	// SectionLetter is the Letter to Stakeholders / Chairman's message.
	SectionLetter
)

// String returns the canonical identifier used in output files.
func (t SectionType) String() string {
	switch t {
	case SectionMDNA:
		return "mdna"
	case SectionLetter:
		return "letter_to_stakeholders"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable section title.
func (t SectionType) DisplayName() string {
	switch t {
	case SectionMDNA:
		return "Management Discussion & Analysis"
	case SectionLetter:
		return "Letter to Stakeholders"
	default:
		return "Unknown"
	}
}

// ParseSectionType maps a string identifier back to a SectionType.
// Accepts the canonical identifiers plus common short forms.
func ParseSectionType(s string) (SectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mdna", "mda", "md&a":
		return SectionMDNA, nil
	case "letter_to_stakeholders", "letter":
		return SectionLetter, nil
	default:
		return SectionUnknown, fmt.Errorf("unknown section type %q", s)
	}
}

// SectionTypes lists the detectable section types in detection order.
func SectionTypes() []SectionType {
	return []SectionType{SectionMDNA, SectionLetter}
}

// SectionBoundary is the detection result for one section type in one
// document. At most one boundary exists per (document, section type);
// a section that was not found is represented by the absence of a
// boundary, never by a zero value.
type SectionBoundary struct {
	// Type is the section this boundary belongs to.
	Type SectionType

	// StartPage is the 1-based page the winning heading appears on.
	StartPage int

	// EndPage is the 1-based last page of the section, inclusive.
	// Always >= StartPage once detection completes.
	EndPage int

	// Confidence is the heading score in [0, 1].
	Confidence float64

	// HeadingText is the raw text of the winning heading block.
	HeadingText string

	// Method tags how the boundary was found.
	Method string
}

// Validate checks the boundary invariants.
func (b SectionBoundary) Validate() error {
	if b.StartPage < 1 {
		return fmt.Errorf("start page %d out of range", b.StartPage)
	}
	if b.EndPage != 0 && b.EndPage < b.StartPage {
		return fmt.Errorf("end page %d before start page %d", b.EndPage, b.StartPage)
	}
	if b.Confidence < 0 || b.Confidence > 1 {
		return fmt.Errorf("confidence %.3f outside [0,1]", b.Confidence)
	}
	return nil
}

// SectionContent joins a boundary with the page text it spans.
type SectionContent struct {
	Type       SectionType
	StartPage  int
	EndPage    int
	Text       string
	WordCount  int
	CharCount  int
	Confidence float64
}

// PageCount returns the number of pages the section spans, inclusive.
func (c SectionContent) PageCount() int {
	if c.EndPage < c.StartPage {
		return 0
	}
	return c.EndPage - c.StartPage + 1
}
