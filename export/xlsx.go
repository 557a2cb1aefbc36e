package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/avinse/reportage/model"
)

// BatchSummaryFile is the workbook name a batch run writes into the
// output root.
const BatchSummaryFile = "batch_summary.xlsx"

var summaryHeaders = []string{
	"Company", "Year", "Kind", "Pages",
	"MD&A Pages", "MD&A Confidence",
	"Letter Pages", "Letter Confidence",
	"Status", "Elapsed",
}

// WriteBatchSummary writes one workbook row per processed document so
// a batch run can be reviewed at a glance.
func WriteBatchSummary(path string, reports []*model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headers := make([]any, len(summaryHeaders))
	for i, h := range summaryHeaders {
		headers[i] = h
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rep := range reports {
		row := []any{
			rep.Company,
			rep.Year,
			rep.Kind.String(),
			rep.Stats.TotalPages,
		}
		row = append(row, boundaryCells(rep, model.SectionMDNA)...)
		row = append(row, boundaryCells(rep, model.SectionLetter)...)
		row = append(row,
			rep.Status,
			rep.Elapsed().Round(time.Millisecond).String(),
		)
		if err := setRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "J", 14); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// boundaryCells returns the page-range and confidence cells for one
// section type, blank when the section was not found.
func boundaryCells(rep *model.Report, t model.SectionType) []any {
	b, ok := rep.Boundaries[t]
	if !ok {
		return []any{"", ""}
	}
	return []any{
		fmt.Sprintf("%d-%d", b.StartPage, b.EndPage),
		round3(b.Confidence),
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
