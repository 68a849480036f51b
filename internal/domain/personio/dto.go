package personio

import (
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/validator"
)

// AttendanceQuery is the query string of the attendance listing.
type AttendanceQuery struct {
	StartDate string
	EndDate   string
	Confirmed bool
}

func (q *AttendanceQuery) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(q.StartDate)
	if validator.IsEmpty(q.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: "startDate is required"})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: "startDate must use YYYY-MM-DD"})
	}

	end, endOK := validator.IsValidDate(q.EndDate)
	if validator.IsEmpty(q.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "endDate is required"})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "endDate must use YYYY-MM-DD"})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "endDate must not be before startDate"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the parsed bounds. Call Validate first.
func (q *AttendanceQuery) Range() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(q.StartDate)
	end, _ := validator.IsValidDate(q.EndDate)
	return start, end
}

// AttendanceResponse is one attendance as listed to the dashboard.
type AttendanceResponse struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime,omitempty"`
	EndTime      string  `json:"endTime,omitempty"`
	Duration     float64 `json:"duration"`
	Break        float64 `json:"break"`
	ProjectID    int     `json:"projectId"`
	EmployeeID   int     `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Comment      string  `json:"comment"`
}

// NewAttendanceResponse resolves the employee name from an already fetched roster.
func NewAttendanceResponse(a Attendance, employees []Employee) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		Date:         a.Day().Format("2006-01-02"),
		Duration:     a.DurationNet,
		Break:        a.Break,
		ProjectID:    a.ProjectID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: EmployeeName(a.EmployeeID, employees),
		Comment:      a.Comment,
	}
	if a.StartTime != nil {
		resp.StartTime = a.StartTime.Format("15:04")
	}
	if a.EndTime != nil {
		resp.EndTime = a.EndTime.Format("15:04")
	}
	return resp
}

// EmployeeName returns the full name of id within employees, or "Unknown".
func EmployeeName(id int, employees []Employee) string {
	for _, e := range employees {
		if e.ID == id {
			return e.FullName()
		}
	}
	return "Unknown"
}
