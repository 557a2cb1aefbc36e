package docclass

import (
	"errors"
	"strings"
	"testing"

	"github.com/avinse/reportage/model"
)

type fakeSource struct {
	pages []string
	fail  map[int]bool
}

func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) PlainText(page int) (string, error) {
	if f.fail[page] {
		return "", errors.New("content parse failed")
	}
	return f.pages[page-1], nil
}

func TestClassify_TextDocument(t *testing.T) {
	rich := strings.Repeat("a", 150)
	src := &fakeSource{pages: []string{rich, rich, rich, rich}}

	kind, diag := Classify(src)

	if kind != model.KindText {
		t.Errorf("kind = %v, want %v", kind, model.KindText)
	}
	want := Diagnostics{TotalPages: 4, TextPages: 4, TotalChars: 600, AvgChars: 150}
	if diag != want {
		t.Errorf("diagnostics = %+v, want %+v", diag, want)
	}
}

func TestClassify_ScannedDocument(t *testing.T) {
	src := &fakeSource{pages: []string{"7", "", strings.Repeat(" ", 200), "scan"}}

	kind, diag := Classify(src)

	if kind != model.KindScanned {
		t.Errorf("kind = %v, want %v", kind, model.KindScanned)
	}
	want := Diagnostics{TotalPages: 4, TextPages: 0, TotalChars: 5, AvgChars: 1.25}
	if diag != want {
		t.Errorf("diagnostics = %+v, want %+v", diag, want)
	}
}

func TestClassify_HalfSampleIsText(t *testing.T) {
	rich := strings.Repeat("a", 150)
	src := &fakeSource{pages: []string{rich, rich, "", ""}}

	if kind, _ := Classify(src); kind != model.KindText {
		t.Errorf("kind = %v, want %v with half the sample carrying text", kind, model.KindText)
	}

	src = &fakeSource{pages: []string{rich, "", "", ""}}
	if kind, _ := Classify(src); kind != model.KindScanned {
		t.Errorf("kind = %v, want %v with under half the sample carrying text", kind, model.KindScanned)
	}
}

func TestClassify_CharThresholdIsStrict(t *testing.T) {
	src := &fakeSource{pages: []string{strings.Repeat("a", MinTextChars)}}
	if kind, diag := Classify(src); kind != model.KindScanned || diag.TextPages != 0 {
		t.Errorf("kind = %v, text pages = %d; a page at the threshold must not count", kind, diag.TextPages)
	}

	src = &fakeSource{pages: []string{strings.Repeat("a", MinTextChars+1)}}
	if kind, diag := Classify(src); kind != model.KindText || diag.TextPages != 1 {
		t.Errorf("kind = %v, text pages = %d; a page above the threshold must count", kind, diag.TextPages)
	}
}

func TestClassify_StripsBeforeCounting(t *testing.T) {
	padded := "   " + strings.Repeat("a", MinTextChars) + "   \n"
	src := &fakeSource{pages: []string{padded}}

	kind, diag := Classify(src)

	if diag.TotalChars != MinTextChars {
		t.Errorf("TotalChars = %d, want %d", diag.TotalChars, MinTextChars)
	}
	if kind != model.KindScanned {
		t.Errorf("kind = %v, want %v after stripping padding", kind, model.KindScanned)
	}
}

func TestClassify_SampleCapsAtTen(t *testing.T) {
	rich := strings.Repeat("a", 150)
	pages := make([]string, 12)
	pages[10] = rich
	pages[11] = rich
	src := &fakeSource{pages: pages}

	kind, diag := Classify(src)

	if kind != model.KindScanned {
		t.Errorf("kind = %v, want %v; pages beyond the sample must not count", kind, model.KindScanned)
	}
	if diag.TotalPages != 12 || diag.TextPages != 0 || diag.TotalChars != 0 {
		t.Errorf("diagnostics = %+v, want 12 total pages and nothing sampled past page 10", diag)
	}
}

func TestClassify_EmptyDocument(t *testing.T) {
	kind, diag := Classify(&fakeSource{})

	if kind != model.KindUnknown {
		t.Errorf("kind = %v, want %v", kind, model.KindUnknown)
	}
	if diag != (Diagnostics{}) {
		t.Errorf("diagnostics = %+v, want zero", diag)
	}
}

func TestClassify_SkipsFailedPages(t *testing.T) {
	rich := strings.Repeat("a", 200)
	src := &fakeSource{
		pages: []string{rich, rich, rich, rich},
		fail:  map[int]bool{3: true, 4: true},
	}

	kind, diag := Classify(src)

	if kind != model.KindText {
		t.Errorf("kind = %v, want %v", kind, model.KindText)
	}
	want := Diagnostics{TotalPages: 4, TextPages: 2, TotalChars: 400, AvgChars: 100}
	if diag != want {
		t.Errorf("diagnostics = %+v, want %+v", diag, want)
	}
}
