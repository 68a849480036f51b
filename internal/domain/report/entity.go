package report

import "time"

type Kind string

const (
	KindMonthly    Kind = "monthly"
	KindProject    Kind = "project"
	KindIndividual Kind = "individual"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ProjectHours is one project's dense day grid for a month.
// Hours[d] holds the net hours of day d+1.
type ProjectHours struct {
	ID         int       `json:"id,omitempty"`
	Name       string    `json:"name"`
	Hours      []float64 `json:"hours"`
	TotalHours float64   `json:"totalHours"`
}

// Aggregation is the raw output of folding attendances into month grids.
// Project names are the upstream names, not display names.
type Aggregation struct {
	MonthStart       time.Time      `json:"monthStart"`
	MonthEnd         time.Time      `json:"monthEnd"`
	DaysInMonth      int            `json:"daysInMonth"`
	Projects         []ProjectHours `json:"projects"`
	TotalHoursPerDay []float64      `json:"totalHoursPerDay"`
	TotalMonthHours  float64        `json:"totalMonthHours"`
}

// DefaultColumnBudget is the percentage of the table width shared by the day
// columns. The description and month columns take the remaining 23.
const DefaultColumnBudget = 77.0

// Grid is the render-ready day table shared by the monthly and project reports.
type Grid struct {
	Projects         []ProjectHours `json:"projects"`
	TotalHoursPerDay []float64      `json:"totalHoursPerDay"`
	TotalMonthHours  float64        `json:"totalMonthHours"`
	DaysInMonth      int            `json:"daysInMonth"`
	Weekends         []bool         `json:"weekends"`
	ColumnWeights    []float64      `json:"columnWeights"`
}

type MonthlyReportData struct {
	Grid
	Month time.Time `json:"month"`
}

type ProjectReportData struct {
	Grid
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// IndividualDay holds one day with at least one attendance record.
type IndividualDay struct {
	Date     time.Time `json:"date"`
	Hours    float64   `json:"hours"`
	Comments []string  `json:"comments"`
}

type IndividualReportData struct {
	ProjectName string          `json:"projectName"`
	Month       string          `json:"month"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Days        []IndividualDay `json:"days"`
	TotalHours  float64         `json:"totalHours"`
}

// SpreadsheetRow is one line of the individual spreadsheet.
type SpreadsheetRow struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Comments string  `json:"comments"`
}

// Document is a rendered report ready for download.
type Document struct {
	Filename    string
	ContentType string
	Bytes       []byte
}

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
