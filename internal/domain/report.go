package domain

import (
	"fmt"
	"sort"
	"time"
)

// ReportTimeFormat is the timestamp layout used in report titles
const ReportTimeFormat = "2006/01/02 15:04:05"

// ReportColumns are the column headers of the closed projects report
var ReportColumns = []string{"Project name", "Funding time", "Description"}

// ClosedProjectsReport is the read-only view of fully funded projects,
// fastest funded first. It is consumed by the external spreadsheet exporter.
type ClosedProjectsReport struct {
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generated_at"`
	Columns     []string    `json:"columns"`
	Rows        []ReportRow `json:"rows"`
}

// ReportRow is a single project line of the report
type ReportRow struct {
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// LessByFundingDuration orders closed projects by funding duration,
// then close date, then id (all ascending)
func LessByFundingDuration(a, b *CharityProject) bool {
	da, db := a.FundingDuration(), b.FundingDuration()
	if da != db {
		return da < db
	}
	if ca, cb := closeTime(a), closeTime(b); !ca.Equal(cb) {
		return ca.Before(cb)
	}
	return a.ID < b.ID
}

// SortByFundingDuration sorts projects in place using LessByFundingDuration
func SortByFundingDuration(projects []*CharityProject) {
	sort.SliceStable(projects, func(i, j int) bool {
		return LessByFundingDuration(projects[i], projects[j])
	})
}

func closeTime(p *CharityProject) time.Time {
	if p.CloseDate == nil {
		return time.Time{}
	}
	return *p.CloseDate
}

// FormatFundingDuration renders a duration as "N days, H:MM:SS[.ffffff]".
// The days part is omitted below 24 hours and the fraction when it is zero.
func FormatFundingDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int64(d / time.Second)
	d -= time.Duration(seconds) * time.Second
	micros := int64(d / time.Microsecond)

	clock := fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	if micros > 0 {
		clock += fmt.Sprintf(".%06d", micros)
	}
	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}
