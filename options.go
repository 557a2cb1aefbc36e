package reportage

import (
	"context"

	"github.com/avinse/reportage/clean"
	"github.com/avinse/reportage/pagetext"
	"github.com/avinse/reportage/sections"
	"github.com/avinse/reportage/tables"
)

// Options holds configuration for document processing. All fields are
// plain values or shared stateless components, so copying an Options is
// enough to isolate one Processor's configuration from another's.
type Options struct {
	// Boundary detection. A nil detector means sections.NewDetector().
	detector *sections.Detector

	// Text repair and page assembly. Zero fields fall back to the
	// package defaults.
	cleanConfig    clean.Config
	assembleConfig pagetext.Config

	// Table detection. Zero fields fall back to the package defaults.
	tableConfig tables.Config

	// OCR fallback for scanned documents.
	ocrEnabled bool
	ocrLang    string

	// Cancellation for page loops and external tools.
	ctx context.Context
}

// defaultOptions returns the default processing options.
func defaultOptions() Options {
	return Options{
		ctx: context.Background(),
	}
}
