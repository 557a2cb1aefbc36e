package clean

import (
	"fmt"
	"strings"
	"testing"

	"github.com/avinse/reportage/model"
)

// reportPage builds a page with a shared running header and footer around
// page-specific body lines. The extra flag adds a cover line that repeats
// on too few pages to count as a pattern.
func reportPage(page int, extra bool) model.PageText {
	var b strings.Builder
	if extra {
		b.WriteString("Annual Review\n")
	}
	b.WriteString("Acme Corp 2024\n")
	fmt.Fprintf(&b, "Body paragraph %d discusses operating results.\n", page)
	fmt.Fprintf(&b, "Segment detail %d covers regional markets.\n", page)
	fmt.Fprintf(&b, "%d\n", page)
	b.WriteString("Investor Relations")
	return model.PageText{Page: page, Text: b.String(), Method: model.MethodDirect}
}

func TestPages_StripsRepeatedHeadersAndFooters(t *testing.T) {
	pages := []model.PageText{
		reportPage(1, true),
		reportPage(2, true),
		reportPage(3, false),
		reportPage(4, false),
	}
	pages[3].Method = model.MethodOCR

	cleaned, report := New().Pages(pages)

	if report.HeaderPatterns != 1 || report.FooterPatterns != 1 {
		t.Errorf("report = %+v, want 1 header and 1 footer pattern", report)
	}
	if len(cleaned) != len(pages) {
		t.Fatalf("len(cleaned) = %d, want %d", len(cleaned), len(pages))
	}

	// The shared header, footer, and bare page number go; the cover line
	// repeats on only half the pages and stays.
	want := "Annual Review\nBody paragraph 1 discusses operating results.\nSegment detail 1 covers regional markets."
	if cleaned[0].Text != want {
		t.Errorf("cleaned[0].Text = %q, want %q", cleaned[0].Text, want)
	}

	want = "Body paragraph 3 discusses operating results.\nSegment detail 3 covers regional markets."
	if cleaned[2].Text != want {
		t.Errorf("cleaned[2].Text = %q, want %q", cleaned[2].Text, want)
	}

	if cleaned[0].Page != 1 || cleaned[0].Method != model.MethodDirect {
		t.Errorf("cleaned[0] page/method = %d/%v, want 1/%v", cleaned[0].Page, cleaned[0].Method, model.MethodDirect)
	}
	if cleaned[3].Method != model.MethodOCR {
		t.Errorf("cleaned[3].Method = %v, want %v", cleaned[3].Method, model.MethodOCR)
	}
}

func TestPages_SparseDocument(t *testing.T) {
	pages := make([]model.PageText, 4)
	for i := range pages {
		pages[i] = model.PageText{Page: i + 1, Text: "Acme Corp 2024\nInvestor Relations"}
	}

	cleaned, report := New().Pages(pages)

	// With only two lines per page both land in the header and footer
	// tallies, so every line is stripped.
	if report.HeaderPatterns != 2 || report.FooterPatterns != 2 {
		t.Errorf("report = %+v, want 2 header and 2 footer patterns", report)
	}
	for i, page := range cleaned {
		if page.Text != "" {
			t.Errorf("cleaned[%d].Text = %q, want empty", i, page.Text)
		}
	}
}

func TestDetectRepeated_IgnoresShortLines(t *testing.T) {
	pages := make([]model.PageText, 4)
	for i := range pages {
		pages[i] = model.PageText{
			Page: i + 1,
			Text: fmt.Sprintf("A-1\nBody sentence %d runs long enough.\nTail sentence %d closes the page.", i, i),
		}
	}

	got := New().detectRepeated(pages)
	if len(got.headers) != 0 {
		t.Errorf("headers = %v, want none", got.headers)
	}
	if len(got.footers) != 0 {
		t.Errorf("footers = %v, want none", got.footers)
	}
}

func TestStrip_PageNumbers(t *testing.T) {
	p := linePatterns{headers: map[string]struct{}{}, footers: map[string]struct{}{}}

	text := "Intro text here.\n7\nPage 12\npage 3\nPages 4\n12a\nClosing line."
	want := "Intro text here.\nPages 4\n12a\nClosing line."
	if got := p.strip(text); got != want {
		t.Errorf("strip(%q) = %q, want %q", text, got, want)
	}
}
