// Package reader opens PDF files and serves positioned words, plain page
// text, page geometry, and document metadata.
//
// The package wraps github.com/ledongthuc/pdf. Per-glyph text items are
// merged into words and their coordinates converted from the PDF
// bottom-left origin to top-referenced device units, so callers see pages
// the way they read: top to bottom, left to right.
//
// # Opening Documents
//
// Use [Open] for a file on disk:
//
//	doc, err := reader.Open("annual-report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
// [NewFromReader] serves callers that already hold the bytes, and
// [NewFromFile] adopts an open *os.File.
//
// # Page Addressing
//
// Pages are 1-based. A page whose content cannot be parsed returns an
// error from [Document.Words] or [Document.PlainText]; the Document stays
// usable for the remaining pages. Only a file that cannot be opened at all
// fails [Open].
package reader
