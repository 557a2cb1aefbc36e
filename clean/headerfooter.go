package clean

import (
	"regexp"
	"strings"

	"github.com/avinse/reportage/model"
)

var (
	bareNumberLine = regexp.MustCompile(`^\d+$`)
	pageLabelLine  = regexp.MustCompile(`(?i)^page \d+$`)
)

// linePatterns holds the header and footer lines detected across a document.
type linePatterns struct {
	headers map[string]struct{}
	footers map[string]struct{}
}

// detectRepeated tallies the first and last few non-blank lines of every
// page and keeps those recurring on enough pages to count as running
// headers or footers. Lines at or below the minimum length are ignored;
// they match too easily.
func (c *Cleaner) detectRepeated(pages []model.PageText) linePatterns {
	firstCounts := make(map[string]int)
	lastCounts := make(map[string]int)

	for _, page := range pages {
		lines := nonBlankLines(page.Text)
		if len(lines) == 0 {
			continue
		}
		for _, line := range lines[:min(edgeLineCount, len(lines))] {
			firstCounts[line]++
		}
		for _, line := range lines[max(0, len(lines)-edgeLineCount):] {
			lastCounts[line]++
		}
	}

	minOccurrences := float64(len(pages)) * c.config.HeaderFooterThreshold
	return linePatterns{
		headers: recurring(firstCounts, minOccurrences, c.config.MinLineLength),
		footers: recurring(lastCounts, minOccurrences, c.config.MinLineLength),
	}
}

func recurring(counts map[string]int, minOccurrences float64, minLen int) map[string]struct{} {
	repeated := make(map[string]struct{})
	for line, count := range counts {
		if float64(count) >= minOccurrences && len(line) > minLen {
			repeated[line] = struct{}{}
		}
	}
	return repeated
}

// strip removes lines matching a detected header or footer, along with bare
// page numbers.
func (p linePatterns) strip(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if _, ok := p.headers[trimmed]; ok {
			continue
		}
		if _, ok := p.footers[trimmed]; ok {
			continue
		}
		if bareNumberLine.MatchString(trimmed) || pageLabelLine.MatchString(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
