package clean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	invisibleRunes = regexp.MustCompile(`[\x{200b}-\x{200f}\x{feff}]`)
	dashRuns       = regexp.MustCompile(`-{5,}`)
	underscoreRuns = regexp.MustCompile(`_{5,}`)
	lonePunctLine  = regexp.MustCompile(`\n[^\w\s]\n`)
	newlineRuns    = regexp.MustCompile(`\n{4,}`)
)

// removeNoise strips extraction artifacts: form feeds become newlines,
// invisible characters vanish, horizontal rules drawn with dashes or
// underscores disappear, and a line holding a single stray punctuation
// mark is dropped.
func removeNoise(text string) string {
	text = strings.ReplaceAll(text, "\f", "\n")
	text = invisibleRunes.ReplaceAllString(text, "")
	text = dashRuns.ReplaceAllString(text, "")
	text = underscoreRuns.ReplaceAllString(text, "")
	text = lonePunctLine.ReplaceAllString(text, "\n")
	return text
}

// mergeBrokenLines rejoins sentences the extractor wrapped mid-clause. A
// short line with no closing punctuation merges with a following line that
// starts lowercase and is long enough to be a real continuation. Every
// surviving line comes out trimmed.
func mergeBrokenLines(text string) string {
	lines := strings.Split(text, "\n")
	merged := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			merged = append(merged, "")
			continue
		}

		if len(line) < brokenLineLimit && !endsClause(line) && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if len(next) > continuationMin && startsLower(next) {
				merged = append(merged, line+" "+next)
				i++
				continue
			}
		}

		merged = append(merged, line)
	}
	return strings.Join(merged, "\n")
}

// normalizeWhitespace expands tabs, collapses space runs on prose lines
// while leaving likely tabular lines aligned, and collapses runs of four
// or more newlines to two.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\t", "    ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Contains(line, "  ") && len(line) > alignedLineMin {
			lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
			continue
		}
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")

	return newlineRuns.ReplaceAllString(text, "\n\n")
}

func endsClause(line string) bool {
	r, _ := utf8.DecodeLastRuneInString(line)
	return strings.ContainsRune(clauseEnders, r)
}

func startsLower(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLower(r)
}
