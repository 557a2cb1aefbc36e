package sections

import (
	"testing"

	"github.com/avinse/reportage/model"
)

func TestContent(t *testing.T) {
	pages := []model.PageText{
		{Page: 1, Text: "Cover"},
		{Page: 2, Text: "Letter opening text."},
		{Page: 3, Text: "Letter closing text."},
		{Page: 4, Text: "Financials"},
	}
	boundary := model.SectionBoundary{
		Type:       model.SectionLetter,
		StartPage:  2,
		EndPage:    3,
		Confidence: 0.8,
	}

	content, ok := Content(boundary, pages)
	if !ok {
		t.Fatal("Content() reported no pages in range")
	}

	want := "Letter opening text.\n\nLetter closing text."
	if content.Text != want {
		t.Errorf("Text = %q, want %q", content.Text, want)
	}
	if content.Type != model.SectionLetter || content.StartPage != 2 || content.EndPage != 3 {
		t.Errorf("range = %v %d-%d, want letter 2-3", content.Type, content.StartPage, content.EndPage)
	}
	if content.WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", content.WordCount)
	}
	if content.CharCount != len(want) {
		t.Errorf("CharCount = %d, want %d", content.CharCount, len(want))
	}
	if content.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", content.Confidence)
	}
	if content.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", content.PageCount())
	}
}

func TestContent_NoPagesInRange(t *testing.T) {
	pages := []model.PageText{{Page: 1, Text: "Cover"}}

	boundary := model.SectionBoundary{Type: model.SectionMDNA, StartPage: 9, EndPage: 12}
	if _, ok := Content(boundary, pages); ok {
		t.Error("Content() found pages beyond the document")
	}

	boundary = model.SectionBoundary{Type: model.SectionMDNA, StartPage: 3, EndPage: 2}
	if _, ok := Content(boundary, pages); ok {
		t.Error("Content() accepted an inverted range")
	}
}
