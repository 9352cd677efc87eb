package domain

import "time"

// TimeEntry is one row of reported hours as read from a timesheet.
type TimeEntry struct {
	Project    string
	Specialist string
	Hours      float64 // non-negative; enforced at parse time
	Date       time.Time
}
