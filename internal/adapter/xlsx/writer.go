package xlsx

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"timesheet-report/internal/domain"
)

const (
	sheetReport       = "Report"
	sheetByProject    = "By project"
	sheetBySpecialist = "By specialist"
	sheetStats        = "Statistics"

	minColWidth = 10
	maxColWidth = 60
)

// Writer renders a report as a downloadable .xlsx workbook: the detail
// breakdown, one sheet per summary and a statistics sheet.
type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Write(rep domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	numFmt := "0.00"
	hoursStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("hours style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetReport); err != nil {
		return nil, err
	}
	detail := make([][]interface{}, 0, len(rep.Detail))
	for _, d := range rep.Detail {
		detail = append(detail, []interface{}{d.Project, d.Specialist, round2(d.Hours), d.Entries})
	}
	if err := writeTable(f, sheetReport, []string{"Project", "Specialist", "Hours", "Entries"}, detail); err != nil {
		return nil, err
	}
	if len(rep.Detail) > 0 {
		if err := f.SetCellStyle(sheetReport, "C2", fmt.Sprintf("C%d", len(rep.Detail)+1), hoursStyle); err != nil {
			return nil, err
		}
	}
	// Keep the header visible while scrolling.
	if err := f.SetPanes(sheetReport, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, sheetByProject, "Project", rep.Projects, hoursStyle); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, sheetBySpecialist, "Specialist", rep.Specialists, hoursStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetStats); err != nil {
		return nil, err
	}
	stats := [][]interface{}{
		{"Projects", rep.Stats.Projects},
		{"Specialists", rep.Stats.Specialists},
		{"Total hours", round2(rep.Stats.TotalHours)},
		{"Invalid rows (excluded)", rep.Stats.InvalidRows},
		{"Source rows", rep.Stats.SourceRows},
		{"Rows aggregated", rep.Stats.UsedRows},
	}
	if err := writeTable(f, sheetStats, []string{"Metric", "Value"}, stats); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, sheet, keyHeader string, rows []domain.SummaryRow, hoursStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	table := make([][]interface{}, 0, len(rows))
	for _, s := range rows {
		table = append(table, []interface{}{s.Key, round2(s.Hours), s.Entries})
	}
	if err := writeTable(f, sheet, []string{keyHeader, "Hours", "Entries"}, table); err != nil {
		return err
	}
	if len(rows) > 0 {
		return f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", len(rows)+1), hoursStyle)
	}
	return nil
}

// writeTable writes a header row and data rows starting at A1, then sizes
// each column to its content, clamped to [minColWidth, maxColWidth].
func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	header := make([]interface{}, len(headers))
	widths := make([]float64, len(headers))
	for i, h := range headers {
		header[i] = h
		widths[i] = float64(len(h))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		for j, v := range row {
			if j < len(widths) {
				if l := float64(len(fmt.Sprint(v))); l > widths[j] {
					widths[j] = l
				}
			}
		}
	}
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		w := math.Min(math.Max(minColWidth, width+2), maxColWidth)
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
