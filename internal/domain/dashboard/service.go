package dashboard

import (
	"context"
	"time"
)

// TrendMonths is how many closed months the trend covers.
const TrendMonths = 6

type DashboardService interface {
	// ProjectHours returns per-project totals for the month containing date,
	// dropping zero totals, largest first.
	ProjectHours(ctx context.Context, date time.Time) ([]ProjectHoursResponse, error)
	// MonthlyTrend returns the totals of the previous TrendMonths months, oldest first.
	MonthlyTrend(ctx context.Context) ([]MonthlyTrendPoint, error)
	// Warm fills the caches behind both views.
	Warm(ctx context.Context) error
}
