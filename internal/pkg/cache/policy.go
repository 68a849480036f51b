package cache

import "time"

// TTLPolicy picks a freshness window by how far a month lies in the past.
// Closed months change rarely, so they are kept longer.
type TTLPolicy struct {
	Default       time.Duration
	CurrentMonth  time.Duration
	PreviousMonth time.Duration
	OlderMonths   time.Duration
}

var DefaultPolicy = TTLPolicy{
	Default:       DefaultTTL,
	CurrentMonth:  CurrentMonthTTL,
	PreviousMonth: PreviousMonthTTL,
	OlderMonths:   OlderMonthsTTL,
}

// ForMonth returns the TTL for data about the month containing month, as seen at now.
// Future months are treated as the current month.
func (p TTLPolicy) ForMonth(month, now time.Time) time.Duration {
	switch age := monthsBetween(month, now); {
	case age <= 0:
		return p.CurrentMonth
	case age == 1:
		return p.PreviousMonth
	default:
		return p.OlderMonths
	}
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
