package ports

import (
	"context"
	"io"

	"timesheet-report/internal/domain"
)

// SheetParser reads an uploaded spreadsheet into time entries.
type SheetParser interface {
	Parse(r io.Reader, sel domain.ColumnSelection) (domain.ParseResult, error)
}

// ReportWriter renders a built report as a downloadable document.
type ReportWriter interface {
	Write(rep domain.Report) ([]byte, error)
}

// Archive persists derived report totals to a target system.
// The primary target is BI-adjacent storage, but the interface is
// intentionally generic to support other sinks.
type Archive interface {
	SaveReport(ctx context.Context, rep domain.Report) error
}
