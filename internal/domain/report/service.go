package report

import "context"

// ReportService builds timesheet report data and documents from upstream attendance.
type ReportService interface {
	GenerateMonthly(ctx context.Context, req MonthlyReportRequest) (MonthlyReportData, error)
	GenerateProject(ctx context.Context, req ProjectReportRequest) (ProjectReportData, error)
	GenerateIndividual(ctx context.Context, req IndividualReportRequest) (IndividualReportData, error)

	// Document variants validate, generate and render in one step.
	MonthlyDocument(ctx context.Context, req MonthlyReportRequest) (Document, error)
	ProjectDocument(ctx context.Context, req ProjectReportRequest) (Document, error)
	IndividualDocument(ctx context.Context, req IndividualReportRequest) (Document, error)
}

// Renderer turns report data into file bytes.
type Renderer interface {
	MonthlyPDF(data MonthlyReportData) ([]byte, error)
	ProjectPDF(data ProjectReportData) ([]byte, error)
	IndividualPDF(data IndividualReportData) ([]byte, error)
	IndividualXLSX(rows []SpreadsheetRow) ([]byte, error)
}
