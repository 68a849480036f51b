package personio

import (
	"context"
	"time"
)

// Client is the read-only view of the upstream HR API used by the reporting services.
type Client interface {
	GetEmployees(ctx context.Context) ([]Employee, error)
	GetProjects(ctx context.Context, activeOnly bool) ([]Project, error)
	GetAttendances(ctx context.Context, projectID int, startDate, endDate time.Time, confirmed bool) ([]Attendance, error)
	GetProjectIDByName(ctx context.Context, name string) (int, error)
	GetProjectNameByID(ctx context.Context, id int) (string, error)
}
