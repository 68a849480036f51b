package report

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
)

const (
	ColumnBudget = report.DefaultColumnBudget

	baseColumnWeight   = 1.0
	activeColumnWeight = 1.5

	spreadsheetDateLayout = "2006-01-02"
	spreadsheetTotalLabel = "Total"
)

// Assembler shapes aggregations for rendering.
type Assembler struct {
	rules personio.NamingRules
}

func NewAssembler(rules personio.NamingRules) *Assembler {
	return &Assembler{rules: rules}
}

func (a *Assembler) Monthly(agg report.Aggregation) report.MonthlyReportData {
	return report.MonthlyReportData{
		Grid:  a.grid(agg),
		Month: agg.MonthStart,
	}
}

func (a *Assembler) Project(agg report.Aggregation) report.ProjectReportData {
	return report.ProjectReportData{
		Grid:      a.grid(agg),
		StartDate: agg.MonthStart,
		EndDate:   agg.MonthEnd,
	}
}

func (a *Assembler) grid(agg report.Aggregation) report.Grid {
	projects := make([]report.ProjectHours, len(agg.Projects))
	for i, p := range agg.Projects {
		p.Name = a.DisplayName(p.Name)
		projects[i] = p
	}
	return report.Grid{
		Projects:         projects,
		TotalHoursPerDay: agg.TotalHoursPerDay,
		TotalMonthHours:  agg.TotalMonthHours,
		DaysInMonth:      agg.DaysInMonth,
		Weekends:         WeekendFlags(agg.MonthStart.Year(), agg.MonthStart.Month(), agg.DaysInMonth),
		ColumnWeights:    ColumnWeights(agg.TotalHoursPerDay, agg.Projects, ColumnBudget),
	}
}

// Individual groups one project's attendances by calendar day.
func (a *Assembler) Individual(projectName string, start, end time.Time, attendances []personio.Attendance) report.IndividualReportData {
	days := GroupByDay(attendances)
	var total float64
	for _, d := range days {
		total += d.Hours
	}
	return report.IndividualReportData{
		ProjectName: a.DisplayName(projectName),
		Month:       start.Format("January 2006"),
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		TotalHours:  total,
	}
}

func (a *Assembler) DisplayName(name string) string {
	return a.rules.DisplayName(name)
}

// WeekendFlags marks Saturdays and Sundays; index d is day d+1.
func WeekendFlags(year int, month time.Month, days int) []bool {
	flags := make([]bool, days)
	for d := range flags {
		switch time.Date(year, month, d+1, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			flags[d] = true
		}
	}
	return flags
}

// ColumnWeights widens day columns carrying hours by 1.5 and scales all
// weights so they sum to budget.
func ColumnWeights(totals []float64, projects []report.ProjectHours, budget float64) []float64 {
	weights := make([]float64, len(totals))
	var sum float64
	for d := range weights {
		weights[d] = baseColumnWeight
		if hasHours(d, totals, projects) {
			weights[d] = activeColumnWeight
		}
		sum += weights[d]
	}
	if sum == 0 {
		return weights
	}
	for d := range weights {
		weights[d] = weights[d] * budget / sum
	}
	return weights
}

func hasHours(day int, totals []float64, projects []report.ProjectHours) bool {
	if totals[day] > 0 {
		return true
	}
	for _, p := range projects {
		if day < len(p.Hours) && p.Hours[day] > 0 {
			return true
		}
	}
	return false
}

// GroupByDay merges attendances per calendar day, sorted by date. Hours are
// summed and distinct non-empty comments kept in order of first appearance.
func GroupByDay(attendances []personio.Attendance) []report.IndividualDay {
	sorted := make([]personio.Attendance, len(attendances))
	copy(sorted, attendances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day().Before(sorted[j].Day())
	})

	var days []report.IndividualDay
	index := make(map[time.Time]int)
	for _, att := range sorted {
		key := att.Day()
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, report.IndividualDay{Date: key, Comments: []string{}})
		}
		days[i].Hours += att.DurationNet
		if att.Comment != "" && !slices.Contains(days[i].Comments, att.Comment) {
			days[i].Comments = append(days[i].Comments, att.Comment)
		}
	}
	return days
}

// SpreadsheetRows lays out the individual report as date/hours/comments lines
// followed by a total line.
func SpreadsheetRows(data report.IndividualReportData) []report.SpreadsheetRow {
	rows := make([]report.SpreadsheetRow, 0, len(data.Days)+1)
	for _, d := range data.Days {
		rows = append(rows, report.SpreadsheetRow{
			Date:     d.Date.Format(spreadsheetDateLayout),
			Hours:    d.Hours,
			Comments: joinComments(d.Comments),
		})
	}
	return append(rows, report.SpreadsheetRow{
		Date:  spreadsheetTotalLabel,
		Hours: data.TotalHours,
	})
}

func joinComments(comments []string) string {
	kept := make([]string, 0, len(comments))
	for _, c := range comments {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, ", ")
}
