package sections

import (
	"reflect"
	"testing"

	"github.com/avinse/reportage/model"
)

func TestDetect_EmptyDocument(t *testing.T) {
	boundaries := NewDetector().Detect(nil)
	if len(boundaries) != 0 {
		t.Errorf("expected no boundaries, got %d", len(boundaries))
	}
}

func TestDetect_NoKeywordsAnywhere(t *testing.T) {
	blocks := doc(
		bodyBlocks(1, 4, 10),
		bodyBlocks(2, 4, 10),
		bodyBlocks(3, 4, 10),
	)

	boundaries := NewDetector().Detect(blocks)
	if len(boundaries) != 0 {
		t.Errorf("expected no boundaries, got %v", boundaries)
	}
}

func TestDetect_LetterScenario(t *testing.T) {
	// An 18pt letter heading on page 6 against a 10pt page median, with
	// the financial statements opening on page 12.
	blocks := doc(
		headingPage(6, "Letter to Stakeholders", 18, 120, 10),
		headingPage(12, "Financial Statements", 14, 100, 10),
	)

	boundaries := NewDetector().Detect(blocks)

	letter, ok := boundaries[model.SectionLetter]
	if !ok {
		t.Fatal("letter boundary not found")
	}
	if letter.StartPage != 6 {
		t.Errorf("start = %d, want 6", letter.StartPage)
	}
	if letter.EndPage != 11 {
		t.Errorf("end = %d, want 11", letter.EndPage)
	}
	if letter.Confidence <= 0.9 || letter.Confidence > 1.0 {
		t.Errorf("confidence = %.3f, want in (0.9, 1.0]", letter.Confidence)
	}
	if letter.HeadingText != "Letter to Stakeholders" {
		t.Errorf("heading = %q", letter.HeadingText)
	}
	if letter.Method != MethodLayoutKeywords {
		t.Errorf("method = %q", letter.Method)
	}

	if _, ok := boundaries[model.SectionMDNA]; ok {
		t.Error("unexpected mdna boundary")
	}
}

func TestDetect_BothSections(t *testing.T) {
	blocks := doc(
		headingPage(2, "Dear Shareholders", 16, 100, 10),
		bodyBlocks(3, 4, 10),
		bodyBlocks(5, 4, 10),
		headingPage(8, "Management Discussion and Analysis", 14, 90, 10),
		bodyBlocks(9, 4, 10),
		bodyBlocks(13, 4, 10),
		headingPage(15, "Consolidated Financial Statements", 13, 80, 10),
	)

	boundaries := NewDetector().Detect(blocks)
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(boundaries))
	}

	letter := boundaries[model.SectionLetter]
	if letter.StartPage != 2 || letter.EndPage != 7 {
		t.Errorf("letter = pages %d-%d, want 2-7", letter.StartPage, letter.EndPage)
	}

	mdna := boundaries[model.SectionMDNA]
	if mdna.StartPage != 8 || mdna.EndPage != 14 {
		t.Errorf("mdna = pages %d-%d, want 8-14", mdna.StartPage, mdna.EndPage)
	}

	for section, boundary := range boundaries {
		if err := boundary.Validate(); err != nil {
			t.Errorf("%v: %v", section, err)
		}
	}
}

func TestDetect_Deterministic(t *testing.T) {
	blocks := doc(
		headingPage(2, "Dear Shareholders", 16, 100, 10),
		headingPage(8, "Management Discussion and Analysis", 14, 90, 10),
		headingPage(15, "Consolidated Financial Statements", 13, 80, 10),
	)

	d := NewDetector()
	first := d.Detect(blocks)
	for i := 0; i < 3; i++ {
		if next := d.Detect(blocks); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %v vs %v", i, next, first)
		}
	}
}

func TestDetect_LetterPastPageCutoffAbsent(t *testing.T) {
	blocks := doc(
		bodyBlocks(3, 4, 10),
		headingPage(25, "Chairman's Message", 20, 100, 10),
	)

	boundaries := NewDetector().Detect(blocks)
	if _, ok := boundaries[model.SectionLetter]; ok {
		t.Error("page 25 heading produced a letter boundary")
	}
}

func TestDetectOne(t *testing.T) {
	blocks := doc(headingPage(4, "Letter to Shareholders", 18, 100, 10))

	boundary, ok := NewDetector().DetectOne(blocks, model.SectionLetter)
	if !ok {
		t.Fatal("letter not found")
	}
	if boundary.StartPage != 4 || boundary.EndPage != 4 {
		t.Errorf("pages %d-%d, want single page 4", boundary.StartPage, boundary.EndPage)
	}

	if _, ok := NewDetector().DetectOne(nil, model.SectionLetter); ok {
		t.Error("boundary found in empty document")
	}
}
