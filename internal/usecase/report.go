package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"timesheet-report/internal/domain"
	"timesheet-report/internal/ports"
)

// ReportUseCase coordinates parsing an uploaded timesheet, aggregating it
// into a report and handing the result to the optional archive.
type ReportUseCase struct {
	Log     *slog.Logger
	Parser  ports.SheetParser
	Writer  ports.ReportWriter
	Archive ports.Archive // nil disables archiving
}

// Build runs the full pipeline for one upload: parse, validate, aggregate.
// Parse and validation errors are returned as-is so the transport layer
// can map them; archive failures are logged only, since the report is
// already complete by then.
func (uc *ReportUseCase) Build(ctx context.Context, r io.Reader, sel domain.ColumnSelection) (domain.Report, error) {
	if uc.Parser == nil {
		return domain.Report{}, errors.New("usecase not initialized: missing parser")
	}
	res, err := uc.Parser.Parse(r, sel)
	if err != nil {
		return domain.Report{}, err
	}
	uc.Log.Info("parsed timesheet",
		slog.Int("rows", res.SourceRows),
		slog.Int("entries", len(res.Entries)),
		slog.Int("invalid", len(res.Issues)),
	)

	rep := buildReport(res)
	uc.Log.Info("report built",
		slog.Int("projects", rep.Stats.Projects),
		slog.Int("specialists", rep.Stats.Specialists),
		slog.Float64("total_hours", rep.Stats.TotalHours),
	)

	if uc.Archive != nil {
		if err := uc.Archive.SaveReport(ctx, rep); err != nil {
			uc.Log.Error("archive report", slog.String("error", err.Error()))
		}
	}
	return rep, nil
}

// Export renders a built report through the configured writer.
func (uc *ReportUseCase) Export(rep domain.Report) ([]byte, error) {
	if uc.Writer == nil {
		return nil, errors.New("usecase not initialized: missing writer")
	}
	return uc.Writer.Write(rep)
}

type aggRow struct {
	hours   float64
	entries int
}

type pairKey struct {
	project, specialist string
}

// buildReport groups entries by project, by specialist and by pair, in a
// single pass. Totals are conserved across all three groupings.
func buildReport(res domain.ParseResult) domain.Report {
	projects := make(map[string]*aggRow)
	specialists := make(map[string]*aggRow)
	detail := make(map[pairKey]*aggRow)

	var stats domain.Stats
	for _, e := range res.Entries {
		add(projects, e.Project, e.Hours)
		add(specialists, e.Specialist, e.Hours)
		add(detail, pairKey{e.Project, e.Specialist}, e.Hours)
		stats.TotalHours += e.Hours
		if !e.Date.IsZero() {
			if stats.DateFrom.IsZero() || e.Date.Before(stats.DateFrom) {
				stats.DateFrom = e.Date
			}
			if e.Date.After(stats.DateTo) {
				stats.DateTo = e.Date
			}
		}
	}
	stats.Projects = len(projects)
	stats.Specialists = len(specialists)
	stats.SourceRows = res.SourceRows
	stats.UsedRows = len(res.Entries)
	stats.InvalidRows = len(res.Issues)

	return domain.Report{
		Projects:    summaryRows(projects),
		Specialists: summaryRows(specialists),
		Detail:      detailRows(detail),
		Issues:      res.Issues,
		Stats:       stats,
		GeneratedAt: time.Now().UTC(),
	}
}

func add[K comparable](m map[K]*aggRow, key K, hours float64) {
	row, ok := m[key]
	if !ok {
		row = &aggRow{}
		m[key] = row
	}
	row.hours += hours
	row.entries++
}

func summaryRows(m map[string]*aggRow) []domain.SummaryRow {
	out := make([]domain.SummaryRow, 0, len(m))
	for key, row := range m {
		out = append(out, domain.SummaryRow{Key: key, Hours: row.hours, Entries: row.entries})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func detailRows(m map[pairKey]*aggRow) []domain.DetailRow {
	out := make([]domain.DetailRow, 0, len(m))
	for key, row := range m {
		out = append(out, domain.DetailRow{
			Project:    key.project,
			Specialist: key.specialist,
			Hours:      row.hours,
			Entries:    row.entries,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Project != out[j].Project {
			return out[i].Project < out[j].Project
		}
		return out[i].Specialist < out[j].Specialist
	})
	return out
}
