package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/dashboard"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/cache"
	reportService "github.com/cmlabs-hris/timesheet-reports/internal/service/report"
	"golang.org/x/sync/errgroup"
)

const (
	projectHoursKeyPrefix = "dashboard:project-hours:"
	trendMonthKeyPrefix   = "dashboard:trend:"
	trendCombinedKey      = "dashboard:trend"
)

var germanShortMonths = [...]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."}

type DashboardServiceImpl struct {
	client     personio.Client
	aggregator *reportService.Aggregator
	cache      *cache.Cache
	ttl        cache.TTLPolicy
	rules      personio.NamingRules
	now        func() time.Time
}

func NewDashboardService(client personio.Client, c *cache.Cache, ttl cache.TTLPolicy, rules personio.NamingRules) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		client:     client,
		aggregator: reportService.NewAggregator(client),
		cache:      c,
		ttl:        ttl,
		rules:      rules,
		now:        time.Now,
	}
}

var _ dashboard.DashboardService = (*DashboardServiceImpl)(nil)

// ProjectHours returns per-project totals for the month of date
func (s *DashboardServiceImpl) ProjectHours(ctx context.Context, date time.Time) ([]dashboard.ProjectHoursResponse, error) {
	monthStart, monthEnd := reportService.MonthBounds(date)
	key := projectHoursKeyPrefix + monthStart.Format("2006-01")

	if cached, ok := cache.Lookup[[]dashboard.ProjectHoursResponse](s.cache, key); ok {
		return cached, nil
	}

	projects, err := s.externalProjects(ctx)
	if err != nil {
		return nil, err
	}
	agg, err := s.aggregator.Aggregate(ctx, reportService.RefsFromProjects(projects), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	result := make([]dashboard.ProjectHoursResponse, 0, len(agg.Projects))
	for _, p := range agg.Projects {
		if p.TotalHours <= 0 {
			continue
		}
		result = append(result, dashboard.ProjectHoursResponse{
			Name:  s.rules.DisplayName(p.Name),
			Hours: p.TotalHours,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Hours > result[j].Hours
	})

	s.cache.Set(key, result, s.ttl.ForMonth(monthStart, s.now()))
	return result, nil
}

// MonthlyTrend returns the total external hours of each of the previous months.
// Each month is cached on its own so closed months outlive the combined result.
func (s *DashboardServiceImpl) MonthlyTrend(ctx context.Context) ([]dashboard.MonthlyTrendPoint, error) {
	if cached, ok := cache.Lookup[[]dashboard.MonthlyTrendPoint](s.cache, trendCombinedKey); ok {
		return cached, nil
	}

	now := s.now()
	currentMonth, _ := reportService.MonthBounds(now)

	points := make([]dashboard.MonthlyTrendPoint, dashboard.TrendMonths)
	var missing []int
	for i := range points {
		month := currentMonth.AddDate(0, -(dashboard.TrendMonths - i), 0)
		if cached, ok := cache.Lookup[dashboard.MonthlyTrendPoint](s.cache, trendMonthKeyPrefix+month.Format("2006-01")); ok {
			points[i] = cached
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		projects, err := s.externalProjects(ctx)
		if err != nil {
			return nil, err
		}
		refs := reportService.RefsFromProjects(projects)

		g, gCtx := errgroup.WithContext(ctx)
		for _, i := range missing {
			i := i
			month := currentMonth.AddDate(0, -(dashboard.TrendMonths - i), 0)
			g.Go(func() error {
				monthStart, monthEnd := reportService.MonthBounds(month)
				agg, err := s.aggregator.Aggregate(gCtx, refs, monthStart, monthEnd)
				if err != nil {
					return fmt.Errorf("trend %s: %w", monthStart.Format("2006-01"), err)
				}
				point := dashboard.MonthlyTrendPoint{
					Key:   monthStart.Format("2006-01"),
					Month: shortGermanMonth(monthStart),
					Hours: roundTenth(agg.TotalMonthHours),
				}
				s.cache.Set(trendMonthKeyPrefix+point.Key, point, s.ttl.ForMonth(monthStart, now))
				points[i] = point
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	s.cache.Set(trendCombinedKey, points, s.ttl.CurrentMonth)
	return points, nil
}

// Warm computes the current month's project hours and the trend so the first
// dashboard request after a restart or expiry is served from the cache.
func (s *DashboardServiceImpl) Warm(ctx context.Context) error {
	start := time.Now()
	if _, err := s.ProjectHours(ctx, s.now()); err != nil {
		return fmt.Errorf("warming project hours: %w", err)
	}
	if _, err := s.MonthlyTrend(ctx); err != nil {
		return fmt.Errorf("warming monthly trend: %w", err)
	}
	slog.Info("Dashboard cache warmed", "entries", s.cache.Len(), "duration", time.Since(start))
	return nil
}

func (s *DashboardServiceImpl) externalProjects(ctx context.Context) ([]personio.Project, error) {
	projects, err := s.client.GetProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	return s.rules.ExternalProjects(projects), nil
}

func shortGermanMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", germanShortMonths[t.Month()-1], t.Year())
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
