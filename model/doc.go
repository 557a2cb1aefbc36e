// Package model provides the data types shared across the reportage
// pipeline.
//
// This package defines the user-facing records that every stage produces or
// consumes. Detection, extraction, and export operations communicate through
// these types, making them the primary API for working with processed
// documents.
//
// # Positioned Text
//
// The [Word] type is the provider-level input: one word with device
// coordinates. The [TextBlock] type is one visually grouped line built from
// words during layout extraction:
//
//	block := model.TextBlock{Text: "Letter to Shareholders", Page: 6, FontSize: 18}
//	norm := block.Normalized() // "letter to shareholders"
//
// Coordinates are top-referenced device units: Y grows downward from the
// top of the page, matching how annual-report layout rules are expressed
// (a heading "within 350 units of the page top" has Y <= 350).
//
// # Sections
//
// [SectionType] enumerates the narrative sections the detector knows about.
// [SectionBoundary] is one detection result (start page, end page,
// confidence, winning heading). [SectionContent] joins a boundary with the
// page text it spans.
//
// # Pages
//
// [PageText] holds one extracted page and the method that produced it.
// [ExtractionStats] summarizes text coverage across a document.
//
// # Geometry
//
// [BBox] is a corner-based bounding box (x0, y0, x1, y1) with containment
// and union operations used during line grouping.
package model
