package model

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Letter to Shareholders", "letter to shareholders"},
		{"Chairman's Message", "chairman s message"},
		{"MD&A", "md a"},
		{"  Management   Discussion  ", "management discussion"},
		{"Financial Statements.", "financial statements"},
		{"NOTES TO FINANCIAL STATEMENTS", "notes to financial statements"},
		{"", ""},
		{"---", ""},
		{"md_a", "md_a"},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.input); got != tt.expected {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTextBlockNormalized(t *testing.T) {
	block := TextBlock{Text: "Letter to Stakeholders!", Page: 6}
	if got := block.Normalized(); got != "letter to stakeholders" {
		t.Errorf("Normalized() = %q, want %q", got, "letter to stakeholders")
	}
}

func TestTextBlockLength(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"abc", 3},
		{"", 0},
		{"Chairman’s Letter", 17},
	}

	for _, tt := range tests {
		block := TextBlock{Text: tt.text}
		if got := block.Length(); got != tt.expected {
			t.Errorf("Length(%q) = %d, want %d", tt.text, got, tt.expected)
		}
	}
}

func TestSectionTypeString(t *testing.T) {
	tests := []struct {
		st       SectionType
		expected string
	}{
		{SectionMDNA, "mdna"},
		{SectionLetter, "letter_to_stakeholders"},
		{SectionUnknown, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.st.String(); got != tt.expected {
			t.Errorf("SectionType(%d).String() = %q, want %q", tt.st, got, tt.expected)
		}
	}
}

func TestParseSectionType(t *testing.T) {
	tests := []struct {
		input    string
		expected SectionType
		wantErr  bool
	}{
		{"mdna", SectionMDNA, false},
		{"MD&A", SectionMDNA, false},
		{"letter", SectionLetter, false},
		{"letter_to_stakeholders", SectionLetter, false},
		{" Letter ", SectionLetter, false},
		{"prospectus", SectionUnknown, true},
		{"", SectionUnknown, true},
	}

	for _, tt := range tests {
		got, err := ParseSectionType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSectionType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseSectionType(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSectionBoundaryValidate(t *testing.T) {
	tests := []struct {
		name     string
		boundary SectionBoundary
		wantErr  bool
	}{
		{"valid", SectionBoundary{Type: SectionLetter, StartPage: 6, EndPage: 11, Confidence: 0.95}, false},
		{"single page", SectionBoundary{Type: SectionMDNA, StartPage: 4, EndPage: 4, Confidence: 0.5}, false},
		{"unresolved end", SectionBoundary{Type: SectionMDNA, StartPage: 4, Confidence: 0.5}, false},
		{"end before start", SectionBoundary{StartPage: 10, EndPage: 3, Confidence: 0.5}, true},
		{"zero start", SectionBoundary{StartPage: 0, EndPage: 3, Confidence: 0.5}, true},
		{"confidence above one", SectionBoundary{StartPage: 1, EndPage: 2, Confidence: 1.2}, true},
		{"negative confidence", SectionBoundary{StartPage: 1, EndPage: 2, Confidence: -0.1}, true},
	}

	for _, tt := range tests {
		err := tt.boundary.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSectionContentPageCount(t *testing.T) {
	c := SectionContent{StartPage: 6, EndPage: 11}
	if got := c.PageCount(); got != 6 {
		t.Errorf("PageCount() = %d, want 6", got)
	}

	single := SectionContent{StartPage: 4, EndPage: 4}
	if got := single.PageCount(); got != 1 {
		t.Errorf("single-page PageCount() = %d, want 1", got)
	}
}

func TestBBoxOperations(t *testing.T) {
	b := BBox{X0: 10, Y0: 20, X1: 110, Y1: 40}

	if got := b.Width(); got != 100 {
		t.Errorf("Width() = %f, want 100", got)
	}
	if got := b.Height(); got != 20 {
		t.Errorf("Height() = %f, want 20", got)
	}
	if b.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty box")
	}
	if !b.IsValid() {
		t.Error("IsValid() = false for ordered corners")
	}
	if !b.Contains(50, 30) {
		t.Error("Contains(50, 30) = false, want true")
	}
	if b.Contains(50, 50) {
		t.Error("Contains(50, 50) = true, want false")
	}

	other := BBox{X0: 100, Y0: 30, X1: 200, Y1: 60}
	if !b.Intersects(other) {
		t.Error("Intersects() = false for overlapping boxes")
	}

	u := b.Union(other)
	want := BBox{X0: 10, Y0: 20, X1: 200, Y1: 60}
	if u != want {
		t.Errorf("Union() = %+v, want %+v", u, want)
	}
}

func TestExtractionMethodString(t *testing.T) {
	if got := MethodDirect.String(); got != "direct" {
		t.Errorf("MethodDirect.String() = %q, want %q", got, "direct")
	}
	if got := MethodOCR.String(); got != "ocr" {
		t.Errorf("MethodOCR.String() = %q, want %q", got, "ocr")
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Page: 3, Message: "no words extracted"},
		{Message: "document has no outline"},
	}
	got := FormatWarnings(warnings)
	if !strings.Contains(got, "page 3: no words extracted") {
		t.Errorf("FormatWarnings() = %q, missing page warning", got)
	}
	if !strings.Contains(got, "document has no outline") {
		t.Errorf("FormatWarnings() = %q, missing document warning", got)
	}

	if got := FormatWarnings(nil); got != "" {
		t.Errorf("FormatWarnings(nil) = %q, want empty", got)
	}
}
