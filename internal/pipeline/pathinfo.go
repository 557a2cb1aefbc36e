package pipeline

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DocMeta identifies a report parsed from its source path.
type DocMeta struct {
	Company string
	Year    int
}

// ParsePath derives company and year from a source path. The year is
// a four-digit 1900-2099 number appearing as its own path element or
// embedded in the file stem; later stem matches win, so fiscal spans
// like 2019-2020 resolve to the closing year. The company comes from
// the parent directory, or the grandparent when the parent is the
// year element, with - and _ mapped to spaces.
func ParsePath(path string) DocMeta {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	stem := strings.TrimSuffix(parts[len(parts)-1], filepath.Ext(path))
	dirs := parts[:len(parts)-1]

	var meta DocMeta

	for i := len(dirs) - 1; i >= 0; i-- {
		if y, ok := exactYear(dirs[i]); ok {
			meta.Year = y
			break
		}
	}
	if meta.Year == 0 {
		meta.Year = embeddedYear(stem)
	}

	for i := len(dirs) - 1; i >= 0 && i >= len(dirs)-2; i-- {
		part := dirs[i]
		if part == "" || part == "." {
			continue
		}
		if _, ok := exactYear(part); ok {
			continue
		}
		meta.Company = companyName(part)
		break
	}

	return meta
}

// exactYear reports whether s is exactly a four-digit year in the
// 1900-2099 range.
func exactYear(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	n, _ := strconv.Atoi(s)
	if n < 1900 || n > 2099 {
		return 0, false
	}
	return n, true
}

// embeddedYear scans stem for four-digit years with non-digit
// neighbors and returns the last one, or 0 when none match.
func embeddedYear(stem string) int {
	year := 0
	for i := 0; i+4 <= len(stem); i++ {
		if i > 0 && isDigit(stem[i-1]) {
			continue
		}
		if i+4 < len(stem) && isDigit(stem[i+4]) {
			continue
		}
		if y, ok := exactYear(stem[i : i+4]); ok {
			year = y
		}
	}
	return year
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// companyName maps separator characters to spaces and collapses runs.
func companyName(part string) string {
	part = strings.NewReplacer("-", " ", "_", " ").Replace(part)
	return strings.Join(strings.Fields(part), " ")
}
