package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrUnsupportedFormat      = errors.New("output format must be pdf or xlsx")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
