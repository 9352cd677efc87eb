package domain

// ColumnSelection carries user-chosen column headers for the four roles.
// Empty fields mean automatic detection.
type ColumnSelection struct {
	Project    string
	Specialist string
	Hours      string
	Date       string
}

// RowIssue records a data row that was excluded from aggregation, so the
// report can surface it instead of silently dropping it.
type RowIssue struct {
	Row    int // 1-based spreadsheet row, headers on row 1
	Reason string
}

// ParseResult is the outcome of reading one sheet: the usable entries plus
// the rows that were excluded.
type ParseResult struct {
	Entries    []TimeEntry
	Issues     []RowIssue
	SourceRows int // data rows in the sheet, blank trailing rows excluded
}
