package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/avinse/reportage/model"
)

// Run sizes are half-points, per the OOXML convention go-docx follows.
const (
	sizeTitle       = "32" // 16pt
	sizePageHeading = "24" // 12pt
	sizePageBody    = "20" // 10pt
	sizeSectionBody = "22" // 11pt
)

var groupedInts = message.NewPrinter(language.English)

// writeDocumentDOCX writes the whole document as a Word file: a title
// page with extraction metadata, then every page under its own
// heading. Cleaned text is preferred when the report carries it.
func (e *Exporter) writeDocumentDOCX(rep *model.Report) error {
	pages := rep.Cleaned
	if len(pages) == 0 {
		pages = rep.Pages
	}

	doc := docx.New().WithDefaultTheme()

	title := fmt.Sprintf("%s - Annual Report %d", rep.Company, rep.Year)
	para := doc.AddParagraph().Justification("center")
	para.AddText(title).Size(sizeTitle).Bold()

	doc.AddParagraph().AddText("Generated on: " + e.now().Format("2006-01-02 15:04:05"))
	doc.AddParagraph().AddText(fmt.Sprintf("Total Pages: %d", len(pages)))
	doc.AddParagraph().AddText("Extraction Method: " + extractionLabel(rep.Kind))
	doc.AddParagraph().AddPageBreaks()

	for _, p := range pages {
		heading := doc.AddParagraph()
		heading.AddText(fmt.Sprintf("Page %d", p.Page)).Size(sizePageHeading).Bold()

		text := strings.TrimSpace(p.Text)
		if text == "" {
			doc.AddParagraph().AddText("[No text on this page]").Size(sizePageBody)
		} else {
			for _, part := range splitParagraphs(text) {
				doc.AddParagraph().AddText(part).Size(sizePageBody)
			}
		}
		doc.AddParagraph()
	}

	return e.saveDOCX(ReportDOCXFile, doc)
}

// writeSectionDOCX writes one extracted section as a standalone Word
// file with a short metadata block ahead of the body.
func (e *Exporter) writeSectionDOCX(rep *model.Report, sec model.SectionContent) error {
	doc := docx.New().WithDefaultTheme()

	title := fmt.Sprintf("%s - %s (%d)", rep.Company, sec.Type.DisplayName(), rep.Year)
	para := doc.AddParagraph().Justification("center")
	para.AddText(title).Size(sizeTitle).Bold()

	doc.AddParagraph().AddText(fmt.Sprintf("Pages: %d-%d", sec.StartPage, sec.EndPage))
	doc.AddParagraph().AddText(groupedInts.Sprintf("Character Count: %d", sec.CharCount))
	doc.AddParagraph().AddPageBreaks()

	for _, part := range splitParagraphs(sec.Text) {
		doc.AddParagraph().AddText(part).Size(sizeSectionBody)
	}

	return e.saveDOCX(sec.Type.String()+".docx", doc)
}

func (e *Exporter) saveDOCX(name string, doc *docx.Docx) error {
	f, err := os.Create(e.path(name))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// splitParagraphs breaks page or section text on blank lines, dropping
// empty fragments.
func splitParagraphs(text string) []string {
	var parts []string
	for _, part := range strings.Split(text, "\n\n") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func extractionLabel(kind model.DocKind) string {
	if kind == model.KindScanned {
		return "OCR"
	}
	return "Direct Text Extraction"
}
