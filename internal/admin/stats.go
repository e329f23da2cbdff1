// Package admin derives dashboard statistics from orders, customers and menu items.
package admin

import (
	"time"

	"dinekart/internal/model"

	"github.com/shopspring/decimal"
)

// SeriesDays is the length of the daily series, today included.
const SeriesDays = 7

// ComputeStats summarises the collections as of now. Calendar days and months are
// taken in now's location. It does not modify its inputs.
func ComputeStats(orders []model.Order, users []model.Customer, menu []model.MenuItem, now time.Time) model.DashboardStats {
	loc := now.Location()
	today := startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := monthStart.AddDate(0, 1, 0)
	seriesStart := today.AddDate(0, 0, -(SeriesDays - 1))

	stats := model.DashboardStats{
		TotalUsers:        len(users),
		TotalOrders:       len(orders),
		TotalProducts:     len(menu),
		MonthlyRevenue:    decimal.Zero,
		AverageOrderValue: decimal.Zero,
		Last7Days:         make([]model.DailyStat, SeriesDays),
		CategoryBreakdown: make(map[string]int),
		StatusBreakdown:   make(map[model.OrderStatus]int),
	}

	for i := range stats.Last7Days {
		day := seriesStart.AddDate(0, 0, i)
		stats.Last7Days[i] = model.DailyStat{
			Date:    model.Date{Time: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)},
			Revenue: decimal.Zero,
		}
	}

	for _, o := range orders {
		created := o.CreatedAt.In(loc)
		delivered := o.Status == model.OrderStatusDelivered

		stats.StatusBreakdown[o.Status]++

		if sameDay(created, today) {
			stats.TodayOrders++
		}

		if delivered && !created.Before(monthStart) && created.Before(nextMonth) {
			stats.MonthlyRevenue = stats.MonthlyRevenue.Add(o.TotalAmount)
			stats.MonthlyOrders++
		}

		if i, ok := seriesIndex(created, seriesStart); ok {
			stats.Last7Days[i].Orders++
			if delivered {
				stats.Last7Days[i].Revenue = stats.Last7Days[i].Revenue.Add(o.TotalAmount)
			}
		}
	}

	for _, u := range users {
		if i, ok := seriesIndex(u.CreatedAt.In(loc), seriesStart); ok {
			stats.Last7Days[i].NewUsers++
		}
	}

	for _, p := range menu {
		stats.CategoryBreakdown[p.Category]++
	}

	denominator := stats.MonthlyOrders
	if denominator == 0 {
		denominator = 1
	}
	stats.AverageOrderValue = stats.MonthlyRevenue.Div(decimal.NewFromInt(int64(denominator))).Round(2)

	return stats
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// seriesIndex returns the slot of t in the daily series starting at start.
func seriesIndex(t, start time.Time) (int, bool) {
	day := startOfDay(t)
	if day.Before(start) {
		return 0, false
	}
	// Calendar arithmetic rather than duration division, so DST days count once.
	for i := 0; i < SeriesDays; i++ {
		if sameDay(day, start.AddDate(0, 0, i)) {
			return i, true
		}
	}
	return 0, false
}
