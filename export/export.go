// Package export writes processed annual reports to disk in the
// formats downstream consumers expect: plain and cleaned text, JSON
// metadata, DOCX renditions of the document and of each extracted
// section, Markdown with an HTML preview per section, a CSV per
// detected table, and a batch summary workbook.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/avinse/reportage/model"
)

// Output file names written into an exporter's directory. Section
// files are named after the section type identifier, for example
// mdna.docx or letter_to_stakeholders.md.
const (
	ReportTextFile   = "report.txt"
	CleanedTextFile  = "report_cleaned.txt"
	ReportJSONFile   = "report.json"
	SectionsMetaFile = "sections_metadata.json"
	ReportDOCXFile   = "report.docx"
)

// Exporter writes the output files for one document into a directory.
type Exporter struct {
	dir string
	md  goldmark.Markdown
	now func() time.Time
}

// New returns an Exporter rooted at dir. The directory is created when
// the first export runs.
func New(dir string) *Exporter {
	return &Exporter{
		dir: dir,
		md:  goldmark.New(),
		now: time.Now,
	}
}

// Dir returns the directory the exporter writes into.
func (e *Exporter) Dir() string {
	return e.dir
}

// All writes every applicable output for the report: full text,
// cleaned text when cleaning ran, report.json, sections_metadata.json,
// the document DOCX, a DOCX, Markdown and HTML rendition of each
// extracted section, and a CSV per detected table. Writers run
// independently, so one failure does not stop the rest; the returned
// error joins whatever failed, and the returned paths list the files
// actually written.
func (e *Exporter) All(rep *model.Report) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	var errs []error
	record := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		written = append(written, e.path(name))
	}

	record(ReportTextFile, e.writeFullText(rep))
	if len(rep.Cleaned) > 0 {
		record(CleanedTextFile, e.writeCleanedText(rep))
	}
	record(ReportJSONFile, e.writeReportJSON(rep))
	record(SectionsMetaFile, e.writeSectionsMeta(rep))
	record(ReportDOCXFile, e.writeDocumentDOCX(rep))

	for _, sec := range rep.Sections {
		base := sec.Type.String()
		record(base+".docx", e.writeSectionDOCX(rep, sec))
		record(base+".md", e.writeSectionMarkdown(rep, sec))
		record(base+".html", e.writeSectionHTML(rep, sec))
	}

	seq, lastPage := 0, 0
	for _, table := range rep.Tables {
		if table.Page != lastPage {
			seq, lastPage = 0, table.Page
		}
		seq++
		name := tableFileName(table.Page, seq)
		record(name, e.writeTableCSV(name, table))
	}

	return written, errors.Join(errs...)
}

func (e *Exporter) path(name string) string {
	return filepath.Join(e.dir, name)
}
