package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when the workbook has no data rows at all.
var ErrEmptyInput = errors.New("the sheet is empty or contains no data rows")

// ErrUnreadableWorkbook is returned when the uploaded bytes are not a
// readable .xlsx workbook.
var ErrUnreadableWorkbook = errors.New("the file could not be read as an .xlsx workbook")

// MissingColumnsError is returned when required columns could not be
// located, neither by alias detection nor by manual selection.
type MissingColumnsError struct {
	Columns []string // role names, e.g. "hours"
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// RowValidationError is returned when a row carries an hours value that is
// not a usable non-negative number. The whole upload is rejected; the user
// fixes the file and uploads again.
type RowValidationError struct {
	Row   int // 1-based spreadsheet row
	Value string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row %d: invalid hours value %q", e.Row, e.Value)
}
