package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/dashboard"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-reports/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/validator"
)

type DashboardHandler interface {
	// ProjectHours handles GET /dashboard/project-hours?date=
	ProjectHours(w http.ResponseWriter, r *http.Request)
	// MonthlyTrend handles GET /dashboard/monthly-trend
	MonthlyTrend(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) ProjectHours(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" { // YYYY-MM-DD, YYYY-MM or RFC3339, default: today
		parsed, err := report.ParseDay(raw)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "date", Message: "date must be a valid date"}})
			return
		}
		date = parsed
	}

	result, err := h.dashboardService.ProjectHours(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		result = []dashboard.ProjectHoursResponse{}
	}
	response.Success(w, result)
}

func (h *dashboardHandlerImpl) MonthlyTrend(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.MonthlyTrend(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
