package export

import (
	"os"

	"github.com/avinse/reportage/model"
	"github.com/avinse/reportage/pagetext"
)

// writeFullText writes the raw extracted text with per-page headers.
func (e *Exporter) writeFullText(rep *model.Report) error {
	return e.writePageText(ReportTextFile, rep.Pages)
}

// writeCleanedText writes the cleaned text with per-page headers.
func (e *Exporter) writeCleanedText(rep *model.Report) error {
	return e.writePageText(CleanedTextFile, rep.Cleaned)
}

func (e *Exporter) writePageText(name string, pages []model.PageText) error {
	return os.WriteFile(e.path(name), []byte(pagetext.FullText(pages)), 0644)
}
