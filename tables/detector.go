package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/avinse/reportage/model"
)

// Config holds the detection thresholds.
type Config struct {
	// MinRows is the fewest multi-cell rows a region needs to count as
	// a table.
	MinRows int

	// MinCols is the fewest columns a table can have. A row with at
	// least this many cells is a multi-cell row.
	MinCols int

	// MinConfidence drops detected tables scoring below it.
	MinConfidence float64

	// MaxCellGap is the widest horizontal gap, in device units, between
	// words that still share a cell. Column gaps must exceed it.
	MaxCellGap float64

	// MaxRowGap is the widest vertical gap between consecutive rows of
	// one region; a larger gap starts a new region.
	MaxRowGap float64

	// RowTolerance groups words whose tops differ by no more than this
	// into one row.
	RowTolerance float64

	// MaxLabelRun is the longest run of single-cell rows kept inside a
	// region. A longer run, typically surrounding prose, ends it.
	MaxLabelRun int
}

// DefaultConfig returns thresholds tuned for the financial statements
// of annual reports: a label column plus at least two period columns.
func DefaultConfig() Config {
	return Config{
		MinRows:       3,
		MinCols:       3,
		MinConfidence: 0.5,
		MaxCellGap:    12,
		MaxRowGap:     20,
		RowTolerance:  5,
		MaxLabelRun:   2,
	}
}

// Detector finds tables among the positioned words of a page.
type Detector struct {
	config Config
}

// NewDetector returns a Detector with the default thresholds.
func NewDetector() *Detector {
	return NewDetectorWithConfig(Config{})
}

// NewDetectorWithConfig returns a Detector with the given thresholds.
// Zero fields fall back to the package defaults.
func NewDetectorWithConfig(config Config) *Detector {
	defaults := DefaultConfig()
	if config.MinRows <= 0 {
		config.MinRows = defaults.MinRows
	}
	if config.MinCols <= 0 {
		config.MinCols = defaults.MinCols
	}
	if config.MinConfidence <= 0 {
		config.MinConfidence = defaults.MinConfidence
	}
	if config.MaxCellGap <= 0 {
		config.MaxCellGap = defaults.MaxCellGap
	}
	if config.MaxRowGap <= 0 {
		config.MaxRowGap = defaults.MaxRowGap
	}
	if config.RowTolerance <= 0 {
		config.RowTolerance = defaults.RowTolerance
	}
	if config.MaxLabelRun <= 0 {
		config.MaxLabelRun = defaults.MaxLabelRun
	}
	return &Detector{config: config}
}

// segment is a run of words close enough to share a cell.
type segment struct {
	text   string
	x0, x1 float64
}

// row is one baseline of segments.
type row struct {
	top, bottom float64
	segments    []segment
}

// interval is a column's horizontal extent.
type interval struct {
	x0, x1 float64
}

// Detect returns the tables found among one page's words, top to
// bottom. page is the 1-based page number stamped on the results.
func (d *Detector) Detect(words []model.Word, page int) []model.Table {
	rows := d.buildRows(words)

	var out []model.Table
	for _, region := range d.splitRegions(rows) {
		if t, ok := d.tableFromRegion(region, page); ok {
			out = append(out, t)
		}
	}
	return out
}

// buildRows groups words into rows by top coordinate and merges each
// row's words into segments wherever the gap stays within MaxCellGap.
func (d *Detector) buildRows(words []model.Word) []row {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var rows []row
	group := []model.Word{sorted[0]}
	anchor := sorted[0].Top
	for _, w := range sorted[1:] {
		if w.Top-anchor > d.config.RowTolerance {
			rows = append(rows, d.finishRow(group))
			group = []model.Word{w}
			anchor = w.Top
			continue
		}
		group = append(group, w)
	}
	return append(rows, d.finishRow(group))
}

func (d *Detector) finishRow(words []model.Word) row {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].X0 < words[j].X0
	})

	r := row{top: words[0].Top, bottom: words[0].Bottom}
	seg := segment{text: words[0].Text, x0: words[0].X0, x1: words[0].X1}
	for _, w := range words[1:] {
		r.top = min(r.top, w.Top)
		r.bottom = max(r.bottom, w.Bottom)
		if w.X0-seg.x1 > d.config.MaxCellGap {
			r.segments = append(r.segments, seg)
			seg = segment{text: w.Text, x0: w.X0, x1: w.X1}
			continue
		}
		seg.text += " " + w.Text
		seg.x1 = max(seg.x1, w.X1)
	}
	r.segments = append(r.segments, seg)
	return r
}

// splitRegions cuts the row list at vertical gaps over MaxRowGap, then
// trims each piece to its tabular core.
func (d *Detector) splitRegions(rows []row) [][]row {
	var gapped [][]row
	for i, r := range rows {
		if i == 0 || r.top-rows[i-1].bottom > d.config.MaxRowGap {
			gapped = append(gapped, nil)
		}
		gapped[len(gapped)-1] = append(gapped[len(gapped)-1], r)
	}

	var regions [][]row
	for _, g := range gapped {
		regions = append(regions, d.splitOnLabelRuns(g)...)
	}
	return regions
}

// splitOnLabelRuns drops leading single-cell rows and ends a region
// once more than MaxLabelRun single-cell rows occur in a row. Shorter
// runs stay: they are the spanning labels financial statements use for
// subtotals and group headings.
func (d *Detector) splitOnLabelRuns(rows []row) [][]row {
	var out [][]row
	flush := func(region []row, trailing int) {
		region = region[:len(region)-trailing]
		if len(region) > 0 {
			out = append(out, region)
		}
	}

	var current []row
	trailing := 0
	for _, r := range rows {
		if len(r.segments) >= d.config.MinCols {
			current = append(current, r)
			trailing = 0
			continue
		}
		if len(current) == 0 {
			continue
		}
		current = append(current, r)
		trailing++
		if trailing > d.config.MaxLabelRun {
			flush(current, trailing)
			current = nil
			trailing = 0
		}
	}
	flush(current, trailing)
	return out
}

// tableFromRegion builds the cell grid for one region and scores it.
func (d *Detector) tableFromRegion(rows []row, page int) (model.Table, bool) {
	tabular := 0
	for _, r := range rows {
		if len(r.segments) >= d.config.MinCols {
			tabular++
		}
	}
	if tabular < d.config.MinRows {
		return model.Table{}, false
	}

	cols := d.columnIntervals(rows)
	if len(cols) < d.config.MinCols {
		return model.Table{}, false
	}

	cells := assignCells(rows, cols)
	confidence := d.confidence(rows, cells)
	if confidence < d.config.MinConfidence {
		return model.Table{}, false
	}

	return model.Table{
		Page:       page,
		Rows:       cells,
		BBox:       regionBBox(rows),
		Confidence: confidence,
	}, true
}

// columnIntervals merges the horizontal extents of the multi-cell rows'
// segments into disjoint intervals, left to right. Single-cell rows are
// left out so a spanning label cannot bridge two columns.
func (d *Detector) columnIntervals(rows []row) []interval {
	var spans []interval
	for _, r := range rows {
		if len(r.segments) < d.config.MinCols {
			continue
		}
		for _, s := range r.segments {
			spans = append(spans, interval{s.x0, s.x1})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })

	var cols []interval
	for _, s := range spans {
		if n := len(cols); n > 0 && s.x0 <= cols[n-1].x1 {
			cols[n-1].x1 = max(cols[n-1].x1, s.x1)
			continue
		}
		cols = append(cols, s)
	}
	return cols
}

// assignCells places every segment into the column it overlaps most.
// Segments landing in the same cell concatenate in reading order.
func assignCells(rows []row, cols []interval) [][]string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = make([]string, len(cols))
		for _, s := range r.segments {
			j := bestColumn(s, cols)
			if cells[i][j] != "" {
				cells[i][j] += " "
			}
			cells[i][j] += s.text
		}
	}
	return cells
}

// bestColumn picks the column with the largest horizontal overlap,
// falling back to the nearest edge when the segment sits in a gap.
func bestColumn(s segment, cols []interval) int {
	best, bestOverlap := -1, 0.0
	for j, c := range cols {
		if overlap := min(s.x1, c.x1) - max(s.x0, c.x0); overlap > bestOverlap {
			best, bestOverlap = j, overlap
		}
	}
	if best >= 0 {
		return best
	}

	center := (s.x0 + s.x1) / 2
	nearest, nearestDist := 0, math.Inf(1)
	for j, c := range cols {
		if dist := min(math.Abs(center-c.x0), math.Abs(center-c.x1)); dist < nearestDist {
			nearest, nearestDist = j, dist
		}
	}
	return nearest
}

// confidence weighs cell occupancy 0.4, row-spacing regularity 0.3,
// and the numeric share of value cells 0.3.
func (d *Detector) confidence(rows []row, cells [][]string) float64 {
	return occupancy(cells)*0.4 + rowRegularity(rows)*0.3 + numericShare(cells)*0.3
}

func occupancy(cells [][]string) float64 {
	total, filled := 0, 0
	for _, r := range cells {
		for _, c := range r {
			total++
			if c != "" {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(filled) / float64(total)
}

// rowRegularity rewards evenly spaced rows: one minus the coefficient
// of variation of the top-to-top deltas, floored at zero.
func rowRegularity(rows []row) float64 {
	if len(rows) < 3 {
		return 1
	}
	gaps := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		gaps = append(gaps, rows[i].top-rows[i-1].top)
	}
	m := mean(gaps)
	if m <= 0 {
		return 0
	}
	cv := math.Sqrt(variance(gaps, m)) / m
	return math.Max(0, 1-cv)
}

// numericShare is the fraction of filled cells outside the first
// column that read as amounts.
func numericShare(cells [][]string) float64 {
	total, numeric := 0, 0
	for _, r := range cells {
		for j, c := range r {
			if j == 0 || c == "" {
				continue
			}
			total++
			if isAmount(c) {
				numeric++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(numeric) / float64(total)
}

// isAmount reports whether a cell is a number once currency symbols,
// separators, accounting parentheses, and percent signs are stripped.
func isAmount(s string) bool {
	digits := 0
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("$€£(),.%-+ ", r):
		default:
			return false
		}
	}
	return digits > 0
}

func regionBBox(rows []row) model.BBox {
	b := model.BBox{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, r := range rows {
		b.Y0 = min(b.Y0, r.top)
		b.Y1 = max(b.Y1, r.bottom)
		for _, s := range r.segments {
			b.X0 = min(b.X0, s.x0)
			b.X1 = max(b.X1, s.x1)
		}
	}
	return b
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64, mean float64) float64 {
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}
