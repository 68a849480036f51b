package report

import (
	"testing"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekendFlags_MonthStartingSaturday(t *testing.T) {
	// June 2024 starts on a Saturday.
	flags := WeekendFlags(2024, 6, 30)

	weekend := map[int]bool{1: true, 2: true, 8: true, 9: true, 15: true, 16: true, 22: true, 23: true, 29: true, 30: true}
	for d, flag := range flags {
		assert.Equal(t, weekend[d+1], flag, "day %d", d+1)
	}
}

func TestColumnWeights(t *testing.T) {
	totals := []float64{0, 4, 0, 0}
	projects := []report.ProjectHours{{Hours: []float64{0, 4, 0, 0}}}

	weights := ColumnWeights(totals, projects, ColumnBudget)

	require.Len(t, weights, 4)
	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, ColumnBudget, sum, 1e-9)
	assert.InDelta(t, 1.5*weights[0], weights[1], 1e-9)
	assert.InDelta(t, 77/4.5, weights[0], 1e-9)
}

func TestColumnWeights_ProjectHoursWithoutTotal(t *testing.T) {
	// A day is wide when any project carries hours even if the total row is zero.
	totals := []float64{0, 0}
	projects := []report.ProjectHours{{Hours: []float64{0, 2}}, {Hours: []float64{0, -2}}}

	weights := ColumnWeights(totals, projects, 10)
	assert.InDelta(t, 4.0, weights[0], 1e-9)
	assert.InDelta(t, 6.0, weights[1], 1e-9)
}

func TestDisplayName(t *testing.T) {
	a := NewAssembler(personio.DefaultNamingRules)
	assert.Equal(t, "Acme", a.DisplayName("_ext_Acme"))
	assert.Equal(t, "_ext", a.DisplayName("_ext"))
}

func TestGroupByDay(t *testing.T) {
	days := GroupByDay([]personio.Attendance{
		att(1, 2, day(2024, 6, 10), 1.0, "deploy"),
		att(1, 1, day(2024, 6, 3), 3.5, "review"),
		att(1, 2, day(2024, 6, 3), 2.0, ""),
		att(1, 3, day(2024, 6, 3), 1.0, "review"),
		att(1, 3, day(2024, 6, 3), 0.5, "sync"),
	})

	require.Len(t, days, 2)
	assert.Equal(t, day(2024, 6, 3), days[0].Date)
	assert.InDelta(t, 7.0, days[0].Hours, 1e-9)
	assert.Equal(t, []string{"review", "sync"}, days[0].Comments)
	assert.Equal(t, day(2024, 6, 10), days[1].Date)
	assert.Equal(t, []string{"deploy"}, days[1].Comments)
}

func TestIndividualAndSpreadsheetRows(t *testing.T) {
	a := NewAssembler(personio.DefaultNamingRules)
	data := a.Individual("_ext_Acme", day(2024, 6, 1), day(2024, 6, 30), []personio.Attendance{
		att(1, 1, day(2024, 6, 3), 3.5, "review"),
		att(1, 2, day(2024, 6, 3), 2.0, "pairing"),
		att(1, 2, day(2024, 6, 10), 1.0, ""),
	})

	assert.Equal(t, "Acme", data.ProjectName)
	assert.Equal(t, "June 2024", data.Month)
	assert.InDelta(t, 6.5, data.TotalHours, 1e-9)

	rows := SpreadsheetRows(data)
	assert.Equal(t, []report.SpreadsheetRow{
		{Date: "2024-06-03", Hours: 5.5, Comments: "review, pairing"},
		{Date: "2024-06-10", Hours: 1.0, Comments: ""},
		{Date: "Total", Hours: 6.5},
	}, rows)
}

func TestAssemblerMonthly(t *testing.T) {
	a := NewAssembler(personio.DefaultNamingRules)
	agg := report.Aggregation{
		MonthStart:       day(2024, 6, 1),
		MonthEnd:         day(2024, 6, 30),
		DaysInMonth:      30,
		Projects:         []report.ProjectHours{{ID: 1, Name: "_ext_Acme", Hours: make([]float64, 30)}},
		TotalHoursPerDay: make([]float64, 30),
	}

	data := a.Monthly(agg)
	assert.Equal(t, "Acme", data.Projects[0].Name)
	assert.Equal(t, "_ext_Acme", agg.Projects[0].Name, "aggregation is not mutated")
	assert.Len(t, data.Weekends, 30)
	assert.Len(t, data.ColumnWeights, 30)
	assert.Equal(t, day(2024, 6, 1), data.Month)
}
