package clean

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Typographic punctuation mapped to ASCII before the NFKC fold; these
// codepoints have no compatibility decomposition, so the fold alone would
// leave them in place.
var punctReplacer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"–", "-", // en dash
	"—", "--", // em dash
	" ", " ", // non-breaking space
)

// NormalizeUnicode maps typographic punctuation to ASCII and folds
// compatibility characters to their canonical forms. Ligatures such as
// "ﬁ" and fullwidth digits expand under the NFKC fold.
func NormalizeUnicode(text string) string {
	return norm.NFKC.String(punctReplacer.Replace(text))
}
