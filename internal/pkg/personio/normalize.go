package personio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
)

// flexInt decodes integers sent either as JSON numbers or numeric strings.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	f.Value, f.Valid = int(n), true
	return nil
}

// flexString decodes strings and numbers into their text form.
type flexString struct {
	Value string
	Valid bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.Value, f.Valid = s, s != ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("not a string or number: %s", b)
	}
	f.Value, f.Valid = n.String(), true
	return nil
}

type attribute struct {
	Value flexString `json:"value"`
	Label string     `json:"label"`
	Type  string     `json:"type"`
}

// Employee attributes also carry nested objects (department, supervisor), so each
// attribute is decoded only when it is needed.
type rawEmployee struct {
	Type       string                     `json:"type"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

func (r rawEmployee) attr(key string) (string, bool) {
	raw, ok := r.Attributes[key]
	if !ok {
		return "", false
	}
	var a attribute
	if err := json.Unmarshal(raw, &a); err != nil || !a.Value.Valid {
		return "", false
	}
	return a.Value.Value, true
}

type rawProject struct {
	ID         flexInt `json:"id"`
	Attributes struct {
		Name      string `json:"name"`
		Active    *bool  `json:"active"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	} `json:"attributes"`
}

type rawAttendanceProject struct {
	ID         flexInt `json:"id"`
	Attributes struct {
		ID   flexInt `json:"id"`
		Name string  `json:"name"`
	} `json:"attributes"`
}

type rawAttendance struct {
	ID         flexString `json:"id"`
	Attributes struct {
		Employee   flexInt               `json:"employee"`
		EmployeeID flexInt               `json:"employee_id"`
		Date       string                `json:"date"`
		StartTime  string                `json:"start_time"`
		EndTime    string                `json:"end_time"`
		Break      float64               `json:"break"`
		Comment    *string               `json:"comment"`
		ProjectID  flexInt               `json:"project_id"`
		Project    *rawAttendanceProject `json:"project"`
	} `json:"attributes"`
}

func normalizeEmployee(index int, raw json.RawMessage) (personio.Employee, error) {
	var r rawEmployee
	if err := json.Unmarshal(raw, &r); err != nil {
		return personio.Employee{}, &personio.MalformedResponseError{Resource: "employee", Field: "attributes", Index: index}
	}

	id, ok := r.attr("id")
	if !ok {
		return personio.Employee{}, &personio.MalformedResponseError{Resource: "employee", Field: "id", Index: index}
	}
	idNum, err := strconv.Atoi(id)
	if err != nil {
		return personio.Employee{}, &personio.MalformedResponseError{Resource: "employee", Field: "id", Index: index}
	}
	first, ok := r.attr("first_name")
	if !ok {
		return personio.Employee{}, &personio.MalformedResponseError{Resource: "employee", Field: "first_name", Index: index}
	}
	last, ok := r.attr("last_name")
	if !ok {
		return personio.Employee{}, &personio.MalformedResponseError{Resource: "employee", Field: "last_name", Index: index}
	}

	return personio.Employee{
		ID:        idNum,
		FirstName: first,
		LastName:  last,
	}, nil
}

func normalizeProject(index int, raw json.RawMessage) (personio.Project, error) {
	var r rawProject
	if err := json.Unmarshal(raw, &r); err != nil {
		return personio.Project{}, &personio.MalformedResponseError{Resource: "project", Field: "id", Index: index}
	}
	if !r.ID.Valid {
		return personio.Project{}, &personio.MalformedResponseError{Resource: "project", Field: "id", Index: index}
	}
	if r.Attributes.Name == "" {
		return personio.Project{}, &personio.MalformedResponseError{Resource: "project", Field: "name", Index: index}
	}
	createdAt, err := parseTimestamp(r.Attributes.CreatedAt)
	if err != nil {
		return personio.Project{}, &personio.MalformedResponseError{Resource: "project", Field: "created_at", Index: index}
	}
	updatedAt, err := parseTimestamp(r.Attributes.UpdatedAt)
	if err != nil {
		return personio.Project{}, &personio.MalformedResponseError{Resource: "project", Field: "updated_at", Index: index}
	}

	active := true
	if r.Attributes.Active != nil {
		active = *r.Attributes.Active
	}

	return personio.Project{
		ID:        r.ID.Value,
		Name:      r.Attributes.Name,
		Active:    active,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// normalizeAttendance maps one attendance period. Unlike employees and projects,
// a malformed attendance is reported to the caller, which drops it.
func normalizeAttendance(index int, raw json.RawMessage) (personio.Attendance, error) {
	var r rawAttendance
	if err := json.Unmarshal(raw, &r); err != nil {
		return personio.Attendance{}, &personio.MalformedResponseError{Resource: "attendance", Field: "attributes", Index: index}
	}
	attrs := r.Attributes

	date, err := parseDate(attrs.Date)
	if err != nil {
		return personio.Attendance{}, &personio.MalformedResponseError{Resource: "attendance", Field: "date", Index: index}
	}

	employeeID := attrs.Employee
	if !employeeID.Valid {
		employeeID = attrs.EmployeeID
	}
	if !employeeID.Valid {
		return personio.Attendance{}, &personio.MalformedResponseError{Resource: "attendance", Field: "employee", Index: index}
	}

	projectID := attrs.ProjectID.Value
	if !attrs.ProjectID.Valid && attrs.Project != nil {
		if attrs.Project.ID.Valid {
			projectID = attrs.Project.ID.Value
		} else {
			projectID = attrs.Project.Attributes.ID.Value
		}
	}

	start, err := parseClock(date, attrs.StartTime)
	if err != nil {
		return personio.Attendance{}, &personio.MalformedResponseError{Resource: "attendance", Field: "start_time", Index: index}
	}
	end, err := parseClock(date, attrs.EndTime)
	if err != nil {
		return personio.Attendance{}, &personio.MalformedResponseError{Resource: "attendance", Field: "end_time", Index: index}
	}

	breakHours := attrs.Break / 60
	comment := ""
	if attrs.Comment != nil {
		comment = strings.TrimSpace(*attrs.Comment)
	}

	return personio.Attendance{
		ID:          r.ID.Value,
		EmployeeID:  employeeID.Value,
		ProjectID:   projectID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		DurationNet: NetDuration(start, end, breakHours),
		Break:       breakHours,
		Comment:     comment,
	}, nil
}

// NetDuration returns the worked hours between start and end minus the break.
// It is 0 when either clock time is missing. The result is not clamped.
func NetDuration(start, end *time.Time, breakHours float64) float64 {
	if start == nil || end == nil {
		return 0
	}
	return end.Sub(*start).Hours() - breakHours
}

func parseDate(s string) (time.Time, error) {
	if len(s) < len("2006-01-02") {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Parse("2006-01-02", s[:10])
}

// parseClock anchors an HH:MM or HH:MM:SS clock time on day. Empty means absent.
func parseClock(day time.Time, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	clock, err := time.Parse(layout, s)
	if err != nil {
		return nil, err
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return &t, nil
}

func parseTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
