package dashboard

// ProjectHoursResponse is one external project's total for a month.
type ProjectHoursResponse struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// MonthlyTrendPoint is the total external hours of one closed month.
type MonthlyTrendPoint struct {
	Key   string  `json:"key"`   // YYYY-MM
	Month string  `json:"month"` // short German label, e.g. "Mai 2024"
	Hours float64 `json:"hours"`
}
