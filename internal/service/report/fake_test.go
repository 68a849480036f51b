package report

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
)

// fakeClient serves fixed projects and attendances. Attendances ignore the
// project filter so the fold's own filtering is exercised.
type fakeClient struct {
	projects       []personio.Project
	attendances    []personio.Attendance
	failProjectID  int
	failErr        error
	attendanceHits atomic.Int32

	mu        sync.Mutex
	requested []int
}

var _ personio.Client = (*fakeClient)(nil)

func (f *fakeClient) GetEmployees(ctx context.Context) ([]personio.Employee, error) {
	return nil, nil
}

func (f *fakeClient) GetProjects(ctx context.Context, activeOnly bool) ([]personio.Project, error) {
	var out []personio.Project
	for _, p := range f.projects {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeClient) GetAttendances(ctx context.Context, projectID int, startDate, endDate time.Time, confirmed bool) ([]personio.Attendance, error) {
	f.attendanceHits.Add(1)
	f.mu.Lock()
	f.requested = append(f.requested, projectID)
	f.mu.Unlock()
	if f.failErr != nil && projectID == f.failProjectID {
		return nil, f.failErr
	}
	return f.attendances, nil
}

func (f *fakeClient) GetProjectIDByName(ctx context.Context, name string) (int, error) {
	for _, p := range f.projects {
		if name != "" && strings.Contains(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, &personio.ProjectNotFoundError{Name: name}
}

func (f *fakeClient) GetProjectNameByID(ctx context.Context, id int) (string, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p.Name, nil
		}
	}
	return "", &personio.ProjectNotFoundError{ID: id}
}

type fakeRenderer struct {
	lastRows []report.SpreadsheetRow
}

func (r *fakeRenderer) MonthlyPDF(data report.MonthlyReportData) ([]byte, error) {
	return []byte("%PDF-monthly"), nil
}

func (r *fakeRenderer) ProjectPDF(data report.ProjectReportData) ([]byte, error) {
	return []byte("%PDF-project"), nil
}

func (r *fakeRenderer) IndividualPDF(data report.IndividualReportData) ([]byte, error) {
	return []byte("%PDF-individual"), nil
}

func (r *fakeRenderer) IndividualXLSX(rows []report.SpreadsheetRow) ([]byte, error) {
	r.lastRows = rows
	return []byte("PK"), nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func att(projectID, employeeID int, date time.Time, hours float64, comment string) personio.Attendance {
	return personio.Attendance{
		EmployeeID:  employeeID,
		ProjectID:   projectID,
		Date:        date,
		DurationNet: hours,
		Comment:     comment,
	}
}
