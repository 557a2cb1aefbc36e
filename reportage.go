// Package reportage extracts, cleans, and sections the narrative text of
// annual-report PDFs.
//
// Basic usage:
//
//	rep, err := reportage.Open("annual-2024.pdf").Report()
//	if err != nil {
//	    // handle error
//	}
//	for _, sec := range rep.Sections {
//	    fmt.Println(sec.Type, sec.StartPage, sec.EndPage)
//	}
//
// With options:
//
//	boundaries, err := reportage.Open("annual-2024.pdf").
//	    OCR().
//	    WithContext(ctx).
//	    Boundaries()
//
// For advanced use cases, the lower-level reader, layout, pagetext, and
// sections packages are also available.
package reportage

import (
	"github.com/avinse/reportage/clean"
	"github.com/avinse/reportage/model"
	"github.com/avinse/reportage/reader"
)

// Provider is the page-level document source a Processor consumes.
// *reader.Document satisfies it. Page numbers are 1-based.
type Provider interface {
	PageCount() int
	PageSize(page int) (width, height float64)
	Words(page int) ([]model.Word, error)
	PlainText(page int) (string, error)
	Info() reader.Info
	Close() error
}

// Open prepares the PDF at path for processing and returns a Processor
// for fluent configuration. The file is not opened until the first
// operation runs, so Open itself never fails.
//
// Example:
//
//	rep, err := reportage.Open("annual-2024.pdf").Report()
func Open(path string) *Processor {
	return &Processor{
		path:    path,
		options: defaultOptions(),
	}
}

// FromProvider creates a Processor over an already-open document source.
// The caller keeps ownership of src and is responsible for closing it.
//
// Example:
//
//	doc, err := reader.Open("annual-2024.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//	rep, err := reportage.FromProvider(doc).Report()
func FromProvider(src Provider) *Processor {
	return &Processor{
		src:          src,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	rep := reportage.Must(reportage.Open("annual-2024.pdf").Report())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustPages is a helper that wraps a call to CleanedPages and panics if
// the error is non-nil. It discards the cleaning report and returns just
// the pages.
//
// Example:
//
//	pages := reportage.MustPages(reportage.Open("annual-2024.pdf").CleanedPages())
func MustPages(pages []model.PageText, _ clean.Report, err error) []model.PageText {
	if err != nil {
		panic(err)
	}
	return pages
}
