package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-reports/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly handles POST /reports/monthly
	Monthly(w http.ResponseWriter, r *http.Request)
	// Project handles POST /reports/project
	Project(w http.ResponseWriter, r *http.Request)
	// Individual handles POST /reports/individual
	Individual(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	var req report.MonthlyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	doc, err := h.reportService.MonthlyDocument(r.Context(), req)
	if err != nil {
		slog.Error("Monthly report failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.File(w, doc.Filename, doc.ContentType, doc.Bytes)
}

func (h *reportHandlerImpl) Project(w http.ResponseWriter, r *http.Request) {
	var req report.ProjectReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	doc, err := h.reportService.ProjectDocument(r.Context(), req)
	if err != nil {
		slog.Error("Project report failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.File(w, doc.Filename, doc.ContentType, doc.Bytes)
}

func (h *reportHandlerImpl) Individual(w http.ResponseWriter, r *http.Request) {
	var req report.IndividualReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	doc, err := h.reportService.IndividualDocument(r.Context(), req)
	if err != nil {
		slog.Error("Individual report failed", "error", err, "project", req.Project)
		response.HandleError(w, err)
		return
	}
	response.File(w, doc.Filename, doc.ContentType, doc.Bytes)
}
