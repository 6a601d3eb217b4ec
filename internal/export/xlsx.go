package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// SummarySheet is the worksheet holding the per-series summary.
const SummarySheet = "Summary"

var summaryHeader = []interface{}{
	"Series", "Start (raw)", "End (raw)", "Count (raw)", "Count (smoothed non-NA)",
}

// WriteSummaryXLSX writes the summary as a one-sheet workbook. Start and
// end cells are left empty for series with no raw data.
func WriteSummaryXLSX(path string, summaries []solar.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return err
	}

	for i, s := range summaries {
		row := []interface{}{s.Series, nil, nil, s.RawCount, s.SmoothedCount}
		if s.HasData {
			row[1] = s.Start.Format(DateFormat)
			row[2] = s.End.Format(DateFormat)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
