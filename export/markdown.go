package export

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/avinse/reportage/model"
)

// sectionMarkdown renders one extracted section as Markdown: a title
// heading, a metadata list, a rule, then the section body.
func sectionMarkdown(rep *model.Report, sec model.SectionContent) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - %s (%d)\n\n", rep.Company, sec.Type.DisplayName(), rep.Year)
	fmt.Fprintf(&b, "- Pages: %d-%d\n", sec.StartPage, sec.EndPage)
	fmt.Fprintf(&b, "- Confidence: %.3f\n", sec.Confidence)
	fmt.Fprintf(&b, "- Characters: %d\n", sec.CharCount)
	fmt.Fprintf(&b, "- Words: %d\n\n", sec.WordCount)
	b.WriteString("---\n\n")
	b.WriteString(sec.Text)
	b.WriteString("\n")
	return []byte(b.String())
}

func (e *Exporter) writeSectionMarkdown(rep *model.Report, sec model.SectionContent) error {
	return os.WriteFile(e.path(sec.Type.String()+".md"), sectionMarkdown(rep, sec), 0644)
}

// writeSectionHTML renders the section's Markdown to a standalone HTML
// preview.
func (e *Exporter) writeSectionHTML(rep *model.Report, sec model.SectionContent) error {
	var body bytes.Buffer
	if err := e.md.Convert(sectionMarkdown(rep, sec), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	f, err := os.Create(e.path(sec.Type.String() + ".html"))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	title := fmt.Sprintf("%s - %s (%d)", rep.Company, sec.Type.DisplayName(), rep.Year)
	fmt.Fprintf(f, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=%q>\n<title>%s</title>\n</head>\n<body>\n",
		"utf-8", html.EscapeString(title))
	if _, err := f.Write(body.Bytes()); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	fmt.Fprint(f, "</body>\n</html>\n")
	return nil
}
