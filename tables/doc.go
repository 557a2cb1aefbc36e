// Package tables detects tabular regions on annual-report pages from
// positioned words alone.
//
// Most statement pages carry no grid metadata, so detection is
// geometric: words are grouped into rows, rows into vertically
// contiguous regions, and column intervals are built from the
// horizontal extents of the multi-cell rows. A region becomes a
// [model.Table] when enough of its rows split into enough columns and
// its confidence clears the configured threshold.
//
// Confidence blends cell occupancy, row-spacing regularity, and the
// share of numeric cells; the tables worth pulling out of an annual
// report are overwhelmingly numeric.
package tables
