package personio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
)

const (
	employeesResource   = "v1/company/employees"
	projectsResource    = "v1/company/attendances/projects"
	attendancesResource = "v1/company/attendances"

	dateLayout = "2006-01-02"
)

// GetEmployees fetches one page of employees. A single malformed record fails the call.
func (c *Client) GetEmployees(ctx context.Context) ([]personio.Employee, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("offset", "0")

	resp, err := c.Call(ctx, http.MethodGet, employeesResource, params, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching employees: %w", err)
	}
	records, err := decodeRecords(resp, "employee")
	if err != nil {
		return nil, err
	}

	employees := make([]personio.Employee, 0, len(records))
	for i, raw := range records {
		e, err := normalizeEmployee(i, raw)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// GetProjects fetches all attendance projects, optionally only the active ones.
func (c *Client) GetProjects(ctx context.Context, activeOnly bool) ([]personio.Project, error) {
	resp, err := c.Call(ctx, http.MethodGet, projectsResource, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	records, err := decodeRecords(resp, "project")
	if err != nil {
		return nil, err
	}

	projects := make([]personio.Project, 0, len(records))
	for i, raw := range records {
		p, err := normalizeProject(i, raw)
		if err != nil {
			return nil, err
		}
		if activeOnly && !p.Active {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// GetAttendances pages through the attendances between startDate and endDate.
// The upstream cannot filter by project, so records of other projects are dropped
// here when projectID is non-zero. Malformed records are skipped.
func (c *Client) GetAttendances(ctx context.Context, projectID int, startDate, endDate time.Time, confirmed bool) ([]personio.Attendance, error) {
	var attendances []personio.Attendance

	for offset := 0; ; {
		params := url.Values{}
		params.Set("start_date", startDate.Format(dateLayout))
		params.Set("end_date", endDate.Format(dateLayout))
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))
		if !confirmed {
			params.Set("include_pending", "true")
		}

		resp, err := c.Call(ctx, http.MethodGet, attendancesResource, params, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching attendances at offset %d: %w", offset, err)
		}
		records, err := decodeRecords(resp, "attendance")
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}

		for i, raw := range records {
			a, err := normalizeAttendance(offset+i, raw)
			if err != nil {
				slog.Warn("Skipping malformed attendance", "error", err)
				continue
			}
			if projectID != 0 && a.ProjectID != projectID {
				continue
			}
			attendances = append(attendances, a)
		}

		offset += len(records)
		if resp.Metadata == nil {
			// Without a total, only a short page marks the end.
			if len(records) < c.pageSize {
				break
			}
			continue
		}
		if offset >= resp.Metadata.TotalElements {
			break
		}
	}

	return attendances, nil
}

// GetProjectIDByName returns the id of the first project whose name contains name.
func (c *Client) GetProjectIDByName(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, &personio.ProjectNotFoundError{Name: name}
	}
	projects, err := c.GetProjects(ctx, false)
	if err != nil {
		return 0, err
	}
	for _, p := range projects {
		if strings.Contains(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, &personio.ProjectNotFoundError{Name: name}
}

func (c *Client) GetProjectNameByID(ctx context.Context, id int) (string, error) {
	projects, err := c.GetProjects(ctx, false)
	if err != nil {
		return "", err
	}
	for _, p := range projects {
		if p.ID == id {
			return p.Name, nil
		}
	}
	return "", &personio.ProjectNotFoundError{ID: id}
}

// EmployeeName resolves an employee id against an already fetched list.
func EmployeeName(id int, employees []personio.Employee) string {
	return personio.EmployeeName(id, employees)
}

func decodeRecords(resp *Response, resource string) ([]json.RawMessage, error) {
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(resp.Data, &records); err != nil {
		return nil, &personio.MalformedResponseError{Resource: resource, Field: "data", Index: -1}
	}
	return records, nil
}
