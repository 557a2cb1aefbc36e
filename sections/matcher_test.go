package sections

import (
	"math"
	"testing"

	"github.com/avinse/reportage/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFindBest_NoCandidates(t *testing.T) {
	m := NewMatcher()

	if _, ok := m.FindBest(nil, model.SectionMDNA); ok {
		t.Error("candidate found in empty document")
	}

	blocks := bodyBlocks(3, 6, 10)
	if _, ok := m.FindBest(blocks, model.SectionLetter); ok {
		t.Error("candidate found in keyword-free document")
	}
}

func TestFindBest_ExactBeatsSubstring(t *testing.T) {
	// The substring match comes first in reading order; the exact match
	// must still win on score.
	substring := makeBlock("The Letter to Shareholders follows", 3, 15, 120)
	exact := makeBlock("Letter to Shareholders", 4, 15, 120)

	var blocks []model.TextBlock
	blocks = append(blocks, substring)
	blocks = append(blocks, bodyBlocks(3, 4, 10)...)
	blocks = append(blocks, exact)
	blocks = append(blocks, bodyBlocks(4, 4, 10)...)

	best, ok := NewMatcher().FindBest(blocks, model.SectionLetter)
	if !ok {
		t.Fatal("no candidate found")
	}
	if best.Block.Page != 4 {
		t.Errorf("winner on page %d, want exact match on page 4", best.Block.Page)
	}
	if best.Keyword != "letter to shareholders" {
		t.Errorf("keyword = %q", best.Keyword)
	}
}

func TestFindBest_TieKeepsFirst(t *testing.T) {
	first := makeBlock("Dear Shareholders", 3, 10, 120)
	second := makeBlock("Dear Shareholders", 5, 10, 120)

	var blocks []model.TextBlock
	blocks = append(blocks, first)
	blocks = append(blocks, bodyBlocks(3, 4, 10)...)
	blocks = append(blocks, second)
	blocks = append(blocks, bodyBlocks(5, 4, 10)...)

	best, ok := NewMatcher().FindBest(blocks, model.SectionLetter)
	if !ok {
		t.Fatal("no candidate found")
	}
	if best.Block.Page != 3 {
		t.Errorf("tie resolved to page %d, want first candidate on page 3", best.Block.Page)
	}
}

func TestFindBest_ClassifierGatesCandidates(t *testing.T) {
	// A perfect keyword hit on page 25 must never become a letter
	// candidate.
	late := makeBlock("Letter to Stakeholders", 25, 20, 100)
	blocks := append([]model.TextBlock{}, bodyBlocks(2, 4, 10)...)
	blocks = append(blocks, late)
	blocks = append(blocks, bodyBlocks(25, 4, 10)...)

	if _, ok := NewMatcher().FindBest(blocks, model.SectionLetter); ok {
		t.Error("page 25 block became a letter candidate")
	}
}

func TestFindBest_FirstKeywordPerBlock(t *testing.T) {
	block := makeBlock("MD&A and Financial Review", 7, 14, 100)
	blocks := append([]model.TextBlock{block}, bodyBlocks(7, 4, 10)...)

	best, ok := NewMatcher().FindBest(blocks, model.SectionMDNA)
	if !ok {
		t.Fatal("no candidate found")
	}
	if best.Keyword != "md a" {
		t.Errorf("keyword = %q, want %q from table order", best.Keyword, "md a")
	}
}

func TestFindBest_ScoreBreakdown(t *testing.T) {
	// A substring-quality match keeps totals below the cap so each
	// bonus bucket stays visible. The heading is 51 characters, earning
	// the medium-line bonus.
	const heading = "Section 4 Management Discussion and Analysis Review"

	tests := []struct {
		name     string
		fontSize float64
		y        float64
		want     float64
	}{
		{"very prominent font", 16, 300, 0.5 + 0.1 + 0.15 + 0.03},
		{"prominent font", 13, 300, 0.5 + 0.1 + 0.10 + 0.03},
		{"slightly prominent font", 11.5, 300, 0.5 + 0.1 + 0.05 + 0.03},
		{"top of page", 16, 100, 0.5 + 0.1 + 0.15 + 0.10 + 0.03},
		{"upper half", 16, 200, 0.5 + 0.1 + 0.15 + 0.05 + 0.03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := makeBlock(heading, 7, tt.fontSize, tt.y)
			blocks := append([]model.TextBlock{block}, bodyBlocks(7, 4, 10)...)

			best, ok := NewMatcher().FindBest(blocks, model.SectionMDNA)
			if !ok {
				t.Fatal("no candidate found")
			}
			if !almostEqual(best.Confidence, tt.want) {
				t.Errorf("confidence = %.3f, want %.3f", best.Confidence, tt.want)
			}
		})
	}
}

func TestFindBest_LetterPageBonus(t *testing.T) {
	tests := []struct {
		page int
		want float64
	}{
		{8, 0.5 + 0.3 + 0.10 + 0.05},
		{12, 0.5 + 0.3 + 0.05 + 0.05},
		{18, 0.5 + 0.3 + 0.05},
	}

	for _, tt := range tests {
		block := makeBlock("Dear Stakeholders", tt.page, 10, 500)
		blocks := append([]model.TextBlock{block}, bodyBlocks(tt.page, 4, 10)...)

		best, ok := NewMatcher().FindBest(blocks, model.SectionLetter)
		if !ok {
			t.Fatalf("page %d: no candidate found", tt.page)
		}
		if !almostEqual(best.Confidence, tt.want) {
			t.Errorf("page %d: confidence = %.3f, want %.3f", tt.page, best.Confidence, tt.want)
		}
	}
}

func TestFindBest_AffixMatch(t *testing.T) {
	// Normalized text starts with the keyword but carries a trailing
	// year.
	block := makeBlock("Chairman's Message 2024", 5, 10, 500)
	blocks := append([]model.TextBlock{block}, bodyBlocks(5, 4, 10)...)

	best, ok := NewMatcher().FindBest(blocks, model.SectionLetter)
	if !ok {
		t.Fatal("no candidate found")
	}
	want := 0.5 + 0.2 + 0.10 + 0.05
	if !almostEqual(best.Confidence, want) {
		t.Errorf("confidence = %.3f, want %.3f", best.Confidence, want)
	}
}

func TestFindBest_ConfidenceCapped(t *testing.T) {
	block := makeBlock("Letter to Stakeholders", 2, 20, 100)
	blocks := append([]model.TextBlock{block}, bodyBlocks(2, 4, 10)...)

	best, ok := NewMatcher().FindBest(blocks, model.SectionLetter)
	if !ok {
		t.Fatal("no candidate found")
	}
	if best.Confidence != 1.0 {
		t.Errorf("confidence = %.3f, want capped at 1.0", best.Confidence)
	}
}

func TestFindBest_CustomKeywords(t *testing.T) {
	kw, err := ParseKeywords([]byte("sections:\n  mdna:\n    - operating and financial review\n"))
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcherWith(NewClassifier(), kw)

	block := makeBlock("Operating and Financial Review", 9, 14, 100)
	blocks := append([]model.TextBlock{block}, bodyBlocks(9, 4, 10)...)

	best, ok := m.FindBest(blocks, model.SectionMDNA)
	if !ok {
		t.Fatal("custom keyword not matched")
	}
	if best.Keyword != "operating and financial review" {
		t.Errorf("keyword = %q", best.Keyword)
	}

	// The default phrases were replaced, not merged.
	std := makeBlock("Management Discussion and Analysis", 3, 14, 100)
	stdBlocks := append([]model.TextBlock{std}, bodyBlocks(3, 4, 10)...)
	if _, ok := m.FindBest(stdBlocks, model.SectionMDNA); ok {
		t.Error("replaced default phrase still matched")
	}
}
