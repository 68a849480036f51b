package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SumsSameDayAndDropsOthers(t *testing.T) {
	// June 2024 has 30 days.
	client := &fakeClient{
		projects: []personio.Project{{ID: 1, Name: "_ext_Acme", Active: true}},
		attendances: []personio.Attendance{
			att(1, 10, day(2024, 6, 3), 3.5, ""),
			att(1, 11, day(2024, 6, 3), 2.0, ""),
			att(1, 10, day(2024, 6, 10), 1.0, ""),
			att(2, 10, day(2024, 6, 4), 8.0, ""),  // other project
			att(1, 10, day(2024, 7, 1), 4.0, ""),  // outside the month
			att(1, 10, day(2024, 5, 31), 4.0, ""), // outside the month
		},
	}
	start, end := MonthBounds(day(2024, 6, 15))

	agg, err := NewAggregator(client).Aggregate(context.Background(), RefsFromNames([]string{"_ext_Acme"}), start, end)
	require.NoError(t, err)

	require.Len(t, agg.Projects, 1)
	hours := agg.Projects[0].Hours
	require.Len(t, hours, 30)
	for d, h := range hours {
		switch d {
		case 2:
			assert.InDelta(t, 5.5, h, 1e-9)
		case 9:
			assert.InDelta(t, 1.0, h, 1e-9)
		default:
			assert.Zero(t, h, "day %d", d+1)
		}
	}
	assert.InDelta(t, 6.5, agg.Projects[0].TotalHours, 1e-9)
	assert.InDelta(t, 6.5, agg.TotalMonthHours, 1e-9)
	assert.Equal(t, 30, agg.DaysInMonth)
}

func TestAggregate_NoAttendances(t *testing.T) {
	client := &fakeClient{projects: []personio.Project{{ID: 1, Name: "_ext_Acme", Active: true}}}
	start, end := MonthBounds(day(2024, 2, 1))

	agg, err := NewAggregator(client).Aggregate(context.Background(), RefsFromProjects(client.projects), start, end)
	require.NoError(t, err)

	assert.Equal(t, make([]float64, 29), agg.Projects[0].Hours)
	assert.Zero(t, agg.Projects[0].TotalHours)
	assert.Equal(t, make([]float64, 29), agg.TotalHoursPerDay)
}

func TestAggregate_TotalsAcrossProjectsKeepInputOrder(t *testing.T) {
	client := &fakeClient{
		projects: []personio.Project{
			{ID: 1, Name: "_ext_Acme", Active: true},
			{ID: 2, Name: "_ext_Beta", Active: true},
		},
		attendances: []personio.Attendance{
			att(1, 10, day(2024, 6, 1), 2, ""),
			att(2, 10, day(2024, 6, 1), 3, ""),
			att(2, 10, day(2024, 6, 30), 1, ""),
		},
	}
	start, end := MonthBounds(day(2024, 6, 1))

	agg, err := NewAggregator(client).Aggregate(context.Background(), RefsFromProjects(client.projects), start, end)
	require.NoError(t, err)

	require.Len(t, agg.Projects, 2)
	assert.Equal(t, "_ext_Acme", agg.Projects[0].Name)
	assert.Equal(t, "_ext_Beta", agg.Projects[1].Name)
	assert.InDelta(t, 5.0, agg.TotalHoursPerDay[0], 1e-9)
	assert.InDelta(t, 1.0, agg.TotalHoursPerDay[29], 1e-9)
	assert.InDelta(t, 6.0, agg.TotalMonthHours, 1e-9)
}

func TestAggregate_UnknownProjectFailsEverything(t *testing.T) {
	client := &fakeClient{projects: []personio.Project{{ID: 1, Name: "_ext_Acme", Active: true}}}
	start, end := MonthBounds(day(2024, 6, 1))

	_, err := NewAggregator(client).Aggregate(context.Background(), RefsFromNames([]string{"_ext_Acme", "_ext_Ghost"}), start, end)

	var notFound *personio.ProjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "_ext_Ghost", notFound.Name)
}

func TestAggregate_FetchFailureFailsEverything(t *testing.T) {
	upstream := &personio.ApiError{StatusCode: 500, Code: "500", Message: "boom"}
	client := &fakeClient{
		projects: []personio.Project{
			{ID: 1, Name: "_ext_Acme", Active: true},
			{ID: 2, Name: "_ext_Beta", Active: true},
		},
		failProjectID: 2,
		failErr:       upstream,
	}
	start, end := MonthBounds(day(2024, 6, 1))

	_, err := NewAggregator(client).Aggregate(context.Background(), RefsFromProjects(client.projects), start, end)
	require.Error(t, err)
	assert.True(t, errors.Is(err, upstream))
}

func TestDaysInAndMonthBounds(t *testing.T) {
	assert.Equal(t, 29, DaysIn(day(2024, 2, 10)))
	assert.Equal(t, 28, DaysIn(day(2023, 2, 10)))
	assert.Equal(t, 31, DaysIn(day(2024, 12, 31)))

	start, end := MonthBounds(time.Date(2024, 4, 17, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, day(2024, 4, 1), start)
	assert.Equal(t, day(2024, 4, 30), end)
}
