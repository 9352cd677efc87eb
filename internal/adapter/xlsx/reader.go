package xlsx

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"timesheet-report/internal/domain"
)

// Header aliases accepted during automatic column detection, matched on
// the normalized form (trimmed, lowercased, line breaks collapsed).
// Russian aliases match the tracker exports this tool grew up on.
var (
	projectAliases    = []string{"имя активности", "проект", "activity name", "activity", "project"}
	specialistAliases = []string{"полное название", "сотрудник", "специалист", "full name", "employee", "specialist"}
	hoursAliases      = []string{"записанные часы", "часы", "hours", "logged hours", "time"}
	dateAliases       = []string{"дата", "дата начала", "date", "start date", "day"}
)

// Positional fallback for headerless tracker exports: project in column V,
// specialist in G, hours in C (0-based 21/6/2). It engages only when alias
// detection recognized nothing, so a sheet with readable headers that lacks
// a role still fails loudly. Date has no known position.
const (
	fallbackProjectCol    = 21
	fallbackSpecialistCol = 6
	fallbackHoursCol      = 2
)

// Reader implements ports.SheetParser for .xlsx workbooks.
type Reader struct{}

func NewReader() *Reader { return &Reader{} }

// Parse reads the first sheet of the workbook into time entries.
// Rows with a blank project, specialist, hours or date are collected as
// issues and excluded from the result; a non-numeric or negative hours
// value fails the whole parse with a RowValidationError.
func (rd *Reader) Parse(r io.Reader, sel domain.ColumnSelection) (domain.ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.ParseResult{}, fmt.Errorf("%w: %v", domain.ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return domain.ParseResult{}, domain.ErrEmptyInput
	}
	// Raw values keep hours locale-independent and dates as Excel serials.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.ParseResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return domain.ParseResult{}, domain.ErrEmptyInput
	}

	cols, missing := resolveColumns(rows[0], sel)
	if len(missing) > 0 {
		return domain.ParseResult{}, &domain.MissingColumnsError{Columns: missing}
	}

	var res domain.ParseResult
	for i, row := range rows[1:] {
		rowNum := i + 2 // headers on row 1
		project := strings.TrimSpace(cell(row, cols.project))
		specialist := strings.TrimSpace(cell(row, cols.specialist))
		hoursRaw := strings.TrimSpace(cell(row, cols.hours))
		dateRaw := strings.TrimSpace(cell(row, cols.date))

		if project == "" && specialist == "" && hoursRaw == "" && dateRaw == "" {
			continue // blank filler row, not data
		}
		res.SourceRows++

		if project == "" || specialist == "" {
			res.Issues = append(res.Issues, domain.RowIssue{Row: rowNum, Reason: "missing project or specialist"})
			continue
		}
		if hoursRaw == "" {
			res.Issues = append(res.Issues, domain.RowIssue{Row: rowNum, Reason: "missing hours"})
			continue
		}
		hours, err := parseHours(hoursRaw)
		if err != nil {
			return domain.ParseResult{}, &domain.RowValidationError{Row: rowNum, Value: hoursRaw}
		}
		var date time.Time
		if cols.date >= 0 {
			var ok bool
			date, ok = parseDate(dateRaw)
			if !ok {
				res.Issues = append(res.Issues, domain.RowIssue{Row: rowNum, Reason: "unreadable date"})
				continue
			}
		}
		res.Entries = append(res.Entries, domain.TimeEntry{
			Project:    project,
			Specialist: specialist,
			Hours:      hours,
			Date:       date,
		})
	}
	if res.SourceRows == 0 {
		return domain.ParseResult{}, domain.ErrEmptyInput
	}
	return res, nil
}

// columns holds the resolved 0-based index for each role.
type columns struct {
	project, specialist, hours, date int
}

// resolveColumns maps the four roles onto header positions. Priority per
// role: manual selection, then alias detection, then (for project,
// specialist and hours) the positional fallback. Roles that stay
// unresolved are returned by name.
func resolveColumns(header []string, sel domain.ColumnSelection) (columns, []string) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		n := normalize(h)
		if n == "" {
			continue
		}
		if _, ok := byName[n]; !ok {
			byName[n] = i
		}
	}

	find := func(manual string, aliases []string) int {
		if manual != "" {
			if i, ok := byName[normalize(manual)]; ok {
				return i
			}
			return -1
		}
		for _, a := range aliases {
			if i, ok := byName[a]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		project:    find(sel.Project, projectAliases),
		specialist: find(sel.Specialist, specialistAliases),
		hours:      find(sel.Hours, hoursAliases),
		date:       find(sel.Date, dateAliases),
	}

	// Headerless export: nothing matched, fall back to fixed positions.
	// Such exports carry no known date column, so entries on this path get
	// a zero date instead of failing the required-columns check.
	headerless := false
	if cols.project < 0 && cols.specialist < 0 && cols.hours < 0 && cols.date < 0 &&
		sel == (domain.ColumnSelection{}) && len(header) > fallbackProjectCol {
		cols.project = fallbackProjectCol
		cols.specialist = fallbackSpecialistCol
		cols.hours = fallbackHoursCol
		headerless = true
	}

	var missing []string
	if cols.project < 0 {
		missing = append(missing, "project")
	}
	if cols.specialist < 0 {
		missing = append(missing, "specialist")
	}
	if cols.hours < 0 {
		missing = append(missing, "hours")
	}
	if cols.date < 0 && !headerless {
		missing = append(missing, "date")
	}
	return cols, missing
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ToLower(strings.TrimSpace(s))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseHours(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("hours out of range: %v", v)
	}
	return v, nil
}

// dateLayouts covers the text forms seen in exports; serial values are
// handled before layouts are tried.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"01-02-06",
	"1/2/2006",
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
