package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/cache"
)

const (
	monthlyFilename = "monthly-report.pdf"
	projectFilename = "projekterfassung.pdf"

	// Marks cache keys covering every external project.
	allExternalProjects = "_all"
)

type ReportServiceImpl struct {
	client     personio.Client
	aggregator *Aggregator
	assembler  *Assembler
	renderer   report.Renderer
	cache      *cache.Cache
	ttl        cache.TTLPolicy
	rules      personio.NamingRules
	now        func() time.Time
}

func NewReportService(
	client personio.Client,
	renderer report.Renderer,
	c *cache.Cache,
	ttl cache.TTLPolicy,
	rules personio.NamingRules,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		client:     client,
		aggregator: NewAggregator(client),
		assembler:  NewAssembler(rules),
		renderer:   renderer,
		cache:      c,
		ttl:        ttl,
		rules:      rules,
		now:        time.Now,
	}
}

var _ report.ReportService = (*ReportServiceImpl)(nil)

// GenerateMonthly builds the grid of all active external projects for the month of req.Date.
func (s *ReportServiceImpl) GenerateMonthly(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReportData, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReportData{}, err
	}
	date, _ := report.ParseDay(req.Date)
	monthStart, monthEnd := MonthBounds(date)

	agg, err := s.aggregate(ctx, report.KindMonthly, nil, monthStart, monthEnd)
	if err != nil {
		return report.MonthlyReportData{}, err
	}
	return s.assembler.Monthly(agg), nil
}

// GenerateProject builds the grid for the month of req.StartDate. Without
// explicit projects every active external project is included.
func (s *ReportServiceImpl) GenerateProject(ctx context.Context, req report.ProjectReportRequest) (report.ProjectReportData, error) {
	if err := req.Validate(); err != nil {
		return report.ProjectReportData{}, err
	}
	date, _ := report.ParseDay(req.StartDate)
	monthStart, monthEnd := MonthBounds(date)

	agg, err := s.aggregate(ctx, report.KindProject, req.Projects, monthStart, monthEnd)
	if err != nil {
		return report.ProjectReportData{}, err
	}
	return s.assembler.Project(agg), nil
}

// GenerateIndividual groups one project's confirmed attendances between the request dates by day.
func (s *ReportServiceImpl) GenerateIndividual(ctx context.Context, req report.IndividualReportRequest) (report.IndividualReportData, error) {
	if err := req.Validate(); err != nil {
		return report.IndividualReportData{}, err
	}
	start, _ := report.ParseDay(req.StartDate)
	end, _ := report.ParseDay(req.EndDate)

	key := cacheKey(report.KindIndividual, start.Format("2006-01-02")+"_"+end.Format("2006-01-02"), []string{req.Project})
	attendances, ok := cache.Lookup[[]personio.Attendance](s.cache, key)
	if !ok {
		projectID, err := s.client.GetProjectIDByName(ctx, req.Project)
		if err != nil {
			return report.IndividualReportData{}, err
		}
		attendances, err = s.client.GetAttendances(ctx, projectID, start, end, true)
		if err != nil {
			return report.IndividualReportData{}, fmt.Errorf("project %q: %w", req.Project, err)
		}
		s.cache.Set(key, attendances, s.ttl.ForMonth(start, s.now()))
	}

	return s.assembler.Individual(req.Project, start, end, attendances), nil
}

func (s *ReportServiceImpl) MonthlyDocument(ctx context.Context, req report.MonthlyReportRequest) (report.Document, error) {
	data, err := s.GenerateMonthly(ctx, req)
	if err != nil {
		return report.Document{}, err
	}
	b, err := s.renderer.MonthlyPDF(data)
	if err != nil {
		return report.Document{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return report.Document{Filename: monthlyFilename, ContentType: report.ContentTypePDF, Bytes: b}, nil
}

func (s *ReportServiceImpl) ProjectDocument(ctx context.Context, req report.ProjectReportRequest) (report.Document, error) {
	data, err := s.GenerateProject(ctx, req)
	if err != nil {
		return report.Document{}, err
	}
	b, err := s.renderer.ProjectPDF(data)
	if err != nil {
		return report.Document{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return report.Document{Filename: projectFilename, ContentType: report.ContentTypePDF, Bytes: b}, nil
}

// IndividualDocument renders a PDF or the spreadsheet variant, named <project>_<yyyy-mm>.
func (s *ReportServiceImpl) IndividualDocument(ctx context.Context, req report.IndividualReportRequest) (report.Document, error) {
	data, err := s.GenerateIndividual(ctx, req)
	if err != nil {
		return report.Document{}, err
	}

	format := req.OutputFormat()
	filename := fmt.Sprintf("%s_%s.%s", data.ProjectName, data.StartDate.Format("2006-01"), format)

	var (
		b           []byte
		contentType string
	)
	switch format {
	case report.FormatXLSX:
		b, err = s.renderer.IndividualXLSX(SpreadsheetRows(data))
		contentType = report.ContentTypeXLSX
	default:
		b, err = s.renderer.IndividualPDF(data)
		contentType = report.ContentTypePDF
	}
	if err != nil {
		return report.Document{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return report.Document{Filename: filename, ContentType: contentType, Bytes: b}, nil
}

// aggregate serves a month aggregation from the cache or computes and stores it.
// A nil names slice means all active external projects.
func (s *ReportServiceImpl) aggregate(ctx context.Context, kind report.Kind, names []string, monthStart, monthEnd time.Time) (report.Aggregation, error) {
	key := cacheKey(kind, monthStart.Format("2006-01"), names)
	if agg, ok := cache.Lookup[report.Aggregation](s.cache, key); ok {
		slog.Debug("Report aggregation served from cache", "key", key)
		return agg, nil
	}

	var refs []ProjectRef
	if len(names) == 0 {
		projects, err := s.client.GetProjects(ctx, true)
		if err != nil {
			return report.Aggregation{}, err
		}
		refs = RefsFromProjects(s.rules.ExternalProjects(projects))
	} else {
		refs = RefsFromNames(names)
	}

	agg, err := s.aggregator.Aggregate(ctx, refs, monthStart, monthEnd)
	if err != nil {
		return report.Aggregation{}, err
	}

	s.cache.Set(key, agg, s.ttl.ForMonth(monthStart, s.now()))
	slog.Info("Report aggregation computed",
		"kind", kind,
		"month", monthStart.Format("2006-01"),
		"projects", len(refs),
		"total_hours", agg.TotalMonthHours,
	)
	return agg, nil
}

func cacheKey(kind report.Kind, period string, names []string) string {
	projects := allExternalProjects
	if len(names) > 0 {
		quoted := make([]string, len(names))
		for i, name := range names {
			quoted[i] = strconv.Quote(name)
		}
		projects = strings.Join(quoted, ",")
	}
	return fmt.Sprintf("report:%s:%s:%s", kind, period, projects)
}
