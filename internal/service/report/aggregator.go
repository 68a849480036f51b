package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"golang.org/x/sync/errgroup"
)

// ProjectRef names a project to aggregate. A zero ID is resolved by name.
type ProjectRef struct {
	ID   int
	Name string
}

// RefsFromProjects keeps the ids of already fetched projects so they need no lookup.
func RefsFromProjects(projects []personio.Project) []ProjectRef {
	refs := make([]ProjectRef, len(projects))
	for i, p := range projects {
		refs[i] = ProjectRef{ID: p.ID, Name: p.Name}
	}
	return refs
}

func RefsFromNames(names []string) []ProjectRef {
	refs := make([]ProjectRef, len(names))
	for i, n := range names {
		refs[i] = ProjectRef{Name: n}
	}
	return refs
}

// Aggregator folds confirmed attendances into per-project day grids.
type Aggregator struct {
	client personio.Client
}

func NewAggregator(client personio.Client) *Aggregator {
	return &Aggregator{client: client}
}

// Aggregate fetches every project concurrently. The first failure cancels the
// others and fails the whole aggregation. Output order follows refs.
func (a *Aggregator) Aggregate(ctx context.Context, refs []ProjectRef, monthStart, monthEnd time.Time) (report.Aggregation, error) {
	days := DaysIn(monthStart)
	projects := make([]report.ProjectHours, len(refs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			id := ref.ID
			if id == 0 {
				resolved, err := a.client.GetProjectIDByName(gCtx, ref.Name)
				if err != nil {
					return err
				}
				id = resolved
			}

			attendances, err := a.client.GetAttendances(gCtx, id, monthStart, monthEnd, true)
			if err != nil {
				return fmt.Errorf("project %q: %w", ref.Name, err)
			}
			projects[i] = FoldProject(ref.Name, id, attendances, monthStart, monthEnd, days)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.Aggregation{}, err
	}

	agg := report.Aggregation{
		MonthStart:       monthStart,
		MonthEnd:         monthEnd,
		DaysInMonth:      days,
		Projects:         projects,
		TotalHoursPerDay: make([]float64, days),
	}
	for _, p := range projects {
		for d, h := range p.Hours {
			agg.TotalHoursPerDay[d] += h
		}
		agg.TotalMonthHours += p.TotalHours
	}
	return agg, nil
}

// FoldProject sums net hours per day into a dense grid of length days.
// Records of other projects and records outside [monthStart, monthEnd] are dropped.
func FoldProject(name string, projectID int, attendances []personio.Attendance, monthStart, monthEnd time.Time, days int) report.ProjectHours {
	ph := report.ProjectHours{
		ID:    projectID,
		Name:  name,
		Hours: make([]float64, days),
	}
	first, last := truncateDay(monthStart), truncateDay(monthEnd)

	for _, att := range attendances {
		if projectID != 0 && att.ProjectID != projectID {
			continue
		}
		day := att.Day()
		if day.Before(first) || day.After(last) {
			continue
		}
		idx := day.Day() - 1
		if idx < 0 || idx >= days {
			continue
		}
		ph.Hours[idx] += att.DurationNet
	}
	for _, h := range ph.Hours {
		ph.TotalHours += h
	}
	return ph
}

// DaysIn returns the number of days in t's month.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last calendar day of t's month in UTC.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
