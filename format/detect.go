// Package format sniffs file content so the pipeline can reject inputs
// that merely carry a .pdf name. Annual reports collected by crawlers
// and investor-relations portals are frequently ZIP archives or saved
// HTML error pages mislabeled as PDFs.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the content family of a sniffed byte stream.
type Format int

const (
	// FormatUnknown means the content matched no known signature.
	FormatUnknown Format = iota
	// FormatPDF means a PDF header was found near the start.
	FormatPDF
	// FormatArchive means the content starts with a ZIP local file header.
	FormatArchive
	// FormatHTML means the content starts with an HTML document.
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatArchive:
		return "zip archive"
	case FormatHTML:
		return "html"
	default:
		return "unknown format"
	}
}

// headerWindow is how far into the content the PDF header may sit.
// Viewers accept up to 1024 bytes of junk before %PDF-, and scanner
// and portal output uses that allowance.
const headerWindow = 1024

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Sniff classifies content by its leading bytes.
func Sniff(data []byte) Format {
	head := data
	if len(head) > headerWindow+len(pdfMagic) {
		head = head[:headerWindow+len(pdfMagic)]
	}
	if i := bytes.Index(head, pdfMagic); i >= 0 && i <= headerWindow {
		return FormatPDF
	}
	if bytes.HasPrefix(data, zipMagic) {
		return FormatArchive
	}
	if looksLikeHTML(data) {
		return FormatHTML
	}
	return FormatUnknown
}

// SniffFile classifies a file by reading its head.
func SniffFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("sniff %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, headerWindow+len(pdfMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return FormatUnknown, fmt.Errorf("sniff %s: %w", path, err)
	}
	return Sniff(head[:n]), nil
}

// IsPDFName reports whether a file name carries the .pdf extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func looksLikeHTML(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n")
	if len(head) > 16 {
		head = head[:16]
	}
	upper := strings.ToUpper(string(head))
	return strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML")
}
