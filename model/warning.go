package model

import (
	"fmt"
	"strings"
)

// Warning reports a non-fatal issue encountered while processing a
// document, such as a page whose words could not be extracted. Library
// code accumulates warnings instead of logging; callers decide whether
// and how to surface them.
type Warning struct {
	// Page is the 1-based page the warning refers to, or 0 for
	// document-level warnings.
	Page int

	// Message describes the issue.
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single semicolon-separated string
// for log output.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
