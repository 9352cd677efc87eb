package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"timesheet-report/internal/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		Projects: []domain.SummaryRow{
			{Key: "P1", Hours: 5, Entries: 2},
			{Key: "P2", Hours: 5, Entries: 1},
		},
		Specialists: []domain.SummaryRow{
			{Key: "Alice", Hours: 8, Entries: 2},
			{Key: "Bob", Hours: 2, Entries: 1},
		},
		Detail: []domain.DetailRow{
			{Project: "P1", Specialist: "Alice", Hours: 3, Entries: 1},
			{Project: "P1", Specialist: "Bob", Hours: 2, Entries: 1},
			{Project: "P2", Specialist: "Alice", Hours: 5, Entries: 1},
		},
		Stats: domain.Stats{Projects: 2, Specialists: 2, TotalHours: 10, SourceRows: 3, UsedRows: 3},
	}
}

func TestWrite_RoundTripsThroughExcelize(t *testing.T) {
	out, err := NewWriter().Write(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{sheetReport, sheetByProject, sheetBySpecialist, sheetStats}, sheets)

	rows, err := f.GetRows(sheetReport, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 detail rows
	assert.Equal(t, []string{"Project", "Specialist", "Hours", "Entries"}, rows[0])
	assert.Equal(t, "P1", rows[1][0])
	assert.Equal(t, "Alice", rows[1][1])
	assert.Equal(t, "3", rows[1][2])

	project, err := f.GetRows(sheetByProject, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, project, 3)
	assert.Equal(t, []string{"P1", "5", "2"}, project[1])
	assert.Equal(t, []string{"P2", "5", "1"}, project[2])

	specialist, err := f.GetRows(sheetBySpecialist, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, specialist, 3)
	assert.Equal(t, []string{"Alice", "8", "2"}, specialist[1])
}

func TestWrite_HoursCellsUseTwoDecimalFormat(t *testing.T) {
	out, err := NewWriter().Write(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	// Formatted value reflects the 0.00 number format.
	v, err := f.GetCellValue(sheetReport, "C2")
	require.NoError(t, err)
	assert.Equal(t, "3.00", v)
}

func TestWrite_StatisticsSheet(t *testing.T) {
	out, err := NewWriter().Write(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetStats, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"Projects", "2"}, rows[1])
	assert.Equal(t, []string{"Total hours", "10"}, rows[3])
	assert.Equal(t, []string{"Source rows", "3"}, rows[5])
}

func TestWrite_EmptyReport(t *testing.T) {
	out, err := NewWriter().Write(domain.Report{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 4)
}
