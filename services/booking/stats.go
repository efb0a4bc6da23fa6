package booking

import (
	"time"

	"relocare/models"

	"github.com/shopspring/decimal"
)

// ComputeStats aggregates bookings in one pass. Recency and month
// membership use submittedAt; month boundaries are taken in loc.
func ComputeStats(bookings []models.Booking, now time.Time, loc *time.Location, window time.Duration) models.BookingStats {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)
	recentFrom := now.Add(-window)

	var stats models.BookingStats
	revenue := decimal.Zero

	for _, b := range bookings {
		stats.TotalBookings++
		switch b.Status {
		case models.BookingPending:
			stats.Pending++
		case models.BookingConfirmed:
			stats.Confirmed++
		case models.BookingInProgress:
			stats.InProgress++
		case models.BookingCompleted:
			stats.Completed++
			if b.SubServicePrice != nil && *b.SubServicePrice > 0 {
				stats.CompletedWithPrice++
				revenue = revenue.Add(decimal.NewFromFloat(*b.SubServicePrice))
			}
		case models.BookingCancelled:
			stats.Cancelled++
		default:
			// Legacy documents may carry an unknown status; count them as
			// pending so the per-status counts still add up.
			stats.Pending++
		}

		if !b.SubmittedAt.Before(recentFrom) {
			stats.RecentBookings++
		}
		if !b.SubmittedAt.Before(monthStart) && b.SubmittedAt.Before(monthEnd) {
			stats.MonthlyBookings++
		}
	}

	total, _ := revenue.Round(2).Float64()
	stats.EstimatedRevenue = total
	stats.CompletedRevenue = total
	return stats
}
