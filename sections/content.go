package sections

import (
	"strings"

	"github.com/avinse/reportage/model"
)

// Content joins a detected boundary with the page text it spans. Pages
// outside the boundary's range are ignored; the joined text carries a
// blank line between pages. The false return means the range covered no
// available page.
func Content(boundary model.SectionBoundary, pages []model.PageText) (model.SectionContent, bool) {
	if boundary.StartPage < 1 || boundary.EndPage < boundary.StartPage {
		return model.SectionContent{}, false
	}

	var parts []string
	for _, page := range pages {
		if page.Page >= boundary.StartPage && page.Page <= boundary.EndPage {
			parts = append(parts, page.Text)
		}
	}
	if len(parts) == 0 {
		return model.SectionContent{}, false
	}

	text := strings.Join(parts, "\n\n")
	return model.SectionContent{
		Type:       boundary.Type,
		StartPage:  boundary.StartPage,
		EndPage:    boundary.EndPage,
		Text:       text,
		WordCount:  len(strings.Fields(text)),
		CharCount:  len(text),
		Confidence: boundary.Confidence,
	}, true
}
