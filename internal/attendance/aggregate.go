package attendance

import (
	"gnc-attendance/internal/components/telemetry"
)

const (
	report_aggregate_group       = "aggregate.group"
	report_aggregate_short_group = "aggregate.short-summary"
	report_aggregate_today       = "aggregate.today"
	report_aggregate_groups      = "aggregate.groups"
)

// Aggregate folds per-group results into a Report.
//
// Groups with an error are reported and contribute whatever they read before
// failing. When several rows match today's date the last one in page order wins.
func Aggregate(results []GroupResult, tel telemetry.API) Report {
	tel = telemetry.NewScopedAPI("attendance", tel)

	report := Report{
		Monthly: []MonthRecord{},
		Today:   NewTodayStatus(),
	}
	todayMatches := 0

	for _, group := range results {
		if group.Err != nil {
			tel.ReportWarning(report_aggregate_group, group.Title, group.Err)
		}
		if group.Month != nil {
			report.Monthly = append(report.Monthly, *group.Month)
			report.TotalPresent += group.Month.Present
			report.TotalInstructional += group.Month.Total
		} else if group.Err == nil {
			tel.ReportDebug(report_aggregate_short_group, group.Title, group.HourTotals)
		}
		if group.Today != nil {
			report.Today = *group.Today
			todayMatches += group.TodayMatches
		}
	}

	// TODO: decide on a tie-break once it is known whether the portal can list a date twice
	if todayMatches > 1 {
		tel.ReportWarning(report_aggregate_today, "multiple rows matched today, keeping the last", todayMatches)
	}
	tel.ReportCount(report_aggregate_groups, int64(len(results)))

	report.Overall = FormatPercent(report.TotalPresent, report.TotalInstructional)
	return report
}
