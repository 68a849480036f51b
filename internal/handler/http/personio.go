package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

type PersonioHandler interface {
	// ListProjects handles GET /personio/projects?activeOnly=
	ListProjects(w http.ResponseWriter, r *http.Request)
	// ListEmployees handles GET /personio/employees
	ListEmployees(w http.ResponseWriter, r *http.Request)
	// ListAttendances handles GET /personio/projects/{projectID}/attendances
	ListAttendances(w http.ResponseWriter, r *http.Request)
}

type personioHandlerImpl struct {
	client personio.Client
}

func NewPersonioHandler(client personio.Client) PersonioHandler {
	return &personioHandlerImpl{client: client}
}

func (h *personioHandlerImpl) ListProjects(w http.ResponseWriter, r *http.Request) {
	// defaults to active projects only
	activeOnly := r.URL.Query().Get("activeOnly") != "false"

	projects, err := h.client.GetProjects(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if projects == nil {
		projects = []personio.Project{}
	}
	response.Success(w, projects)
}

func (h *personioHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.client.GetEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if employees == nil {
		employees = []personio.Employee{}
	}
	response.Success(w, employees)
}

func (h *personioHandlerImpl) ListAttendances(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(chi.URLParam(r, "projectID"))
	if err != nil || projectID <= 0 {
		response.HandleError(w, validator.ValidationErrors{{Field: "projectID", Message: "projectID must be a positive integer"}})
		return
	}

	query := personio.AttendanceQuery{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		Confirmed: r.URL.Query().Get("confirmed") == "true",
	}
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, end := query.Range()

	var (
		attendances []personio.Attendance
		employees   []personio.Employee
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		attendances, err = h.client.GetAttendances(ctx, projectID, start, end, query.Confirmed)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = h.client.GetEmployees(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]personio.AttendanceResponse, 0, len(attendances))
	for _, a := range attendances {
		result = append(result, personio.NewAttendanceResponse(a, employees))
	}
	response.Success(w, result)
}
