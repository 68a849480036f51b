package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/validator"
)

// ParseDay accepts YYYY-MM-DD, YYYY-MM or an RFC 3339 timestamp and returns the
// calendar day in UTC.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ProjectList decodes either a single project name or a list of names.
type ProjectList []string

func (p *ProjectList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*p = nil
		} else {
			*p = ProjectList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("project must be a string or a list of strings")
	}
	*p = many
	return nil
}

// ========================================
// MONTHLY REPORT
// ========================================

type MonthlyReportRequest struct {
	Date string `json:"date"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, err := ParseDay(r.Date); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD or YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// PROJECT REPORT
// ========================================

// ProjectReportRequest covers the month of StartDate. An empty project list
// selects every external project.
type ProjectReportRequest struct {
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Projects  ProjectList `json:"project"`
}

func (r *ProjectReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate is required",
		})
	} else if _, err := ParseDay(r.StartDate); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be in YYYY-MM-DD format",
		})
	}

	if r.EndDate != "" {
		if _, err := ParseDay(r.EndDate); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must be in YYYY-MM-DD format",
			})
		}
	}

	for i, name := range r.Projects {
		if validator.IsEmpty(name) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("project[%d]", i),
				Message: "project name must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// INDIVIDUAL REPORT
// ========================================

type IndividualReportRequest struct {
	Project   string `json:"project"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Format    Format `json:"outputFormat"`
}

func (r *IndividualReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Project) {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project is required",
		})
	}

	start, startErr := ParseDay(r.StartDate)
	if startErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be in YYYY-MM-DD format",
		})
	}
	end, endErr := ParseDay(r.EndDate)
	if endErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be in YYYY-MM-DD format",
		})
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if r.Format != "" && !validator.IsInSlice(string(r.Format), []string{string(FormatPDF), string(FormatXLSX)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "outputFormat",
			Message: ErrUnsupportedFormat.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OutputFormat defaults to PDF.
func (r *IndividualReportRequest) OutputFormat() Format {
	if r.Format == "" {
		return FormatPDF
	}
	return r.Format
}
