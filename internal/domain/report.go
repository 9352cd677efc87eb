package domain

import "time"

// SummaryRow is one line of an aggregate table: a grouping key with the
// total hours and the number of entries behind it.
type SummaryRow struct {
	Key     string
	Hours   float64
	Entries int
}

// DetailRow is one line of the per-(project, specialist) breakdown.
type DetailRow struct {
	Project    string
	Specialist string
	Hours      float64
	Entries    int
}

// Stats summarizes one report run.
type Stats struct {
	Projects    int
	Specialists int
	TotalHours  float64
	SourceRows  int
	UsedRows    int
	InvalidRows int
	DateFrom    time.Time
	DateTo      time.Time
}

// Report is the full output of one upload: both summaries, the detail
// breakdown, the excluded rows and run statistics. Derived data only,
// recomputed in full on every upload.
type Report struct {
	Projects    []SummaryRow
	Specialists []SummaryRow
	Detail      []DetailRow
	Issues      []RowIssue
	Stats       Stats
	GeneratedAt time.Time
}

// FilterProject returns a copy of the report narrowed to a single project.
// The specialist summary is recomputed from the filtered detail rows;
// stats keep describing the whole upload. An empty name is a no-op.
func (r Report) FilterProject(name string) Report {
	if name == "" {
		return r
	}
	out := r
	out.Projects = nil
	for _, p := range r.Projects {
		if p.Key == name {
			out.Projects = append(out.Projects, p)
		}
	}
	out.Detail = nil
	specialists := make(map[string]*SummaryRow)
	var order []string
	for _, d := range r.Detail {
		if d.Project != name {
			continue
		}
		out.Detail = append(out.Detail, d)
		row, ok := specialists[d.Specialist]
		if !ok {
			row = &SummaryRow{Key: d.Specialist}
			specialists[d.Specialist] = row
			order = append(order, d.Specialist)
		}
		row.Hours += d.Hours
		row.Entries += d.Entries
	}
	out.Specialists = nil
	for _, key := range order {
		out.Specialists = append(out.Specialists, *specialists[key])
	}
	return out
}
