package personio

import (
	"strings"
	"time"
)

// Credentials identify one API client at the upstream HR system.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Key is the token-sharing key for clients built with identical credentials.
func (c Credentials) Key() string {
	return c.ClientID + ":" + c.ClientSecret
}

type Employee struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Project struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"createdAt"` // Unix seconds
	UpdatedAt int64  `json:"updatedAt"` // Unix seconds
}

// Attendance is one normalized attendance period. DurationNet and Break are hours.
type Attendance struct {
	ID          string
	EmployeeID  int
	ProjectID   int
	Date        time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	DurationNet float64
	Break       float64
	Comment     string
}

// Day returns the attendance date truncated to a calendar day in UTC.
func (a Attendance) Day() time.Time {
	y, m, d := a.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Naming convention for billable external projects.
const (
	ExternalProjectPrefix    = "_ext"
	ExternalProjectExclusion = "RDA"
	DisplayPrefixLength      = 5
)

// NamingRules decides which projects take part in reporting and how they are displayed.
type NamingRules struct {
	ExternalPrefix     string
	ExclusionSubstring string
	DisplayPrefixLen   int
}

var DefaultNamingRules = NamingRules{
	ExternalPrefix:     ExternalProjectPrefix,
	ExclusionSubstring: ExternalProjectExclusion,
	DisplayPrefixLen:   DisplayPrefixLength,
}

// IsExternal reports whether name carries the external prefix and not the exclusion marker.
func (r NamingRules) IsExternal(name string) bool {
	if name == "" || !strings.HasPrefix(name, r.ExternalPrefix) {
		return false
	}
	return r.ExclusionSubstring == "" || !strings.Contains(name, r.ExclusionSubstring)
}

// DisplayName strips the reserved prefix. Names shorter than the prefix are returned as is.
func (r NamingRules) DisplayName(name string) string {
	if len(name) <= r.DisplayPrefixLen {
		return name
	}
	return name[r.DisplayPrefixLen:]
}

// ExternalProjects filters projects by IsExternal, preserving order.
func (r NamingRules) ExternalProjects(projects []Project) []Project {
	var result []Project
	for _, p := range projects {
		if r.IsExternal(p.Name) {
			result = append(result, p)
		}
	}
	return result
}
