package admin

import (
	"testing"
	"time"
	_ "time/tzdata"

	"dinekart/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// now is Saturday 2026-10-17 14:00 UTC.
var now = time.Date(2026, time.October, 17, 14, 0, 0, 0, time.UTC)

func at(days int, hour int) time.Time {
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func order(status model.OrderStatus, total string, created time.Time) model.Order {
	return model.Order{
		Status:      status,
		TotalAmount: decimal.RequireFromString(total),
		CreatedAt:   created,
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil, nil, now)

	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.TodayOrders)
	assert.True(t, stats.MonthlyRevenue.IsZero())
	assert.True(t, stats.AverageOrderValue.IsZero())
	require.Len(t, stats.Last7Days, SeriesDays)
	assert.Equal(t, "2026-10-11", stats.Last7Days[0].Date.String())
	assert.Equal(t, "2026-10-17", stats.Last7Days[6].Date.String())
	assert.Empty(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.StatusBreakdown)
}

func TestComputeStats(t *testing.T) {
	orders := []model.Order{
		order(model.OrderStatusDelivered, "40.00", at(0, 9)),              // today, delivered
		order(model.OrderStatusPending, "25.00", at(0, 11)),               // today, not counted as revenue
		order(model.OrderStatusDelivered, "20.00", at(-3, 19)),            // this month, in series
		order(model.OrderStatusDelivered, "30.00", at(-10, 18)),           // this month, before series
		order(model.OrderStatusDelivered, "99.00", at(-20, 18)),           // last month
		order(model.OrderStatusCancelled, "15.00", at(-6, 20)),            // first series day
		order(model.OrderStatusConfirmed, "12.50", at(-7, 20)),            // just outside series
		order(model.OrderStatusDelivered, "10.00", at(1, 10)),             // tomorrow (clock skew), counted in month only
		order(model.OrderStatusReady, "5.00", at(0, 23).Add(time.Minute)), // still today
	}
	users := []model.Customer{
		{ID: "u1", CreatedAt: at(0, 8)},
		{ID: "u2", CreatedAt: at(-1, 8)},
		{ID: "u3", CreatedAt: at(-1, 9)},
		{ID: "u4", CreatedAt: at(-30, 9)},
	}
	menu := []model.MenuItem{
		{ID: "m1", Category: "mains"},
		{ID: "m2", Category: "mains"},
		{ID: "m3", Category: "desserts"},
	}

	stats := ComputeStats(orders, users, menu, now)

	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 9, stats.TotalOrders)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 3, stats.TodayOrders)

	// 40 + 20 + 30 + 10 delivered in October
	assert.True(t, decimal.RequireFromString("100").Equal(stats.MonthlyRevenue), "revenue %s", stats.MonthlyRevenue)
	assert.Equal(t, 4, stats.MonthlyOrders)
	assert.True(t, decimal.RequireFromString("25").Equal(stats.AverageOrderValue), "aov %s", stats.AverageOrderValue)

	require.Len(t, stats.Last7Days, 7)
	first, yesterday, today := stats.Last7Days[0], stats.Last7Days[5], stats.Last7Days[6]
	assert.Equal(t, 1, first.Orders)
	assert.True(t, first.Revenue.IsZero())
	assert.Equal(t, 2, yesterday.NewUsers)
	assert.Equal(t, 3, today.Orders)
	assert.True(t, decimal.RequireFromString("40").Equal(today.Revenue))
	assert.Equal(t, 1, today.NewUsers)
	assert.Equal(t, 1, stats.Last7Days[3].Orders)
	assert.True(t, decimal.RequireFromString("20").Equal(stats.Last7Days[3].Revenue))

	assert.Equal(t, map[string]int{"mains": 2, "desserts": 1}, stats.CategoryBreakdown)
	assert.Equal(t, 5, stats.StatusBreakdown[model.OrderStatusDelivered])
	assert.Equal(t, 1, stats.StatusBreakdown[model.OrderStatusPending])
	assert.Equal(t, 1, stats.StatusBreakdown[model.OrderStatusCancelled])
}

func TestComputeStats_AverageRounds(t *testing.T) {
	orders := []model.Order{
		order(model.OrderStatusDelivered, "10.00", at(0, 9)),
		order(model.OrderStatusDelivered, "10.00", at(0, 10)),
		order(model.OrderStatusDelivered, "10.01", at(0, 11)),
	}

	stats := ComputeStats(orders, nil, nil, now)
	assert.True(t, decimal.RequireFromString("10").Equal(stats.AverageOrderValue), "aov %s", stats.AverageOrderValue)
}

func TestComputeStats_UsesCallerTimeZone(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)

	// 2026-10-17 11:30 UTC is already 2026-10-18 in Auckland.
	created := time.Date(2026, time.October, 17, 11, 30, 0, 0, time.UTC)
	orders := []model.Order{order(model.OrderStatusPending, "10", created)}

	utc := ComputeStats(orders, nil, nil, now)
	assert.Equal(t, 1, utc.TodayOrders)

	local := ComputeStats(orders, nil, nil, time.Date(2026, time.October, 18, 13, 0, 0, 0, auckland))
	assert.Equal(t, 1, local.TodayOrders)
	assert.Equal(t, "2026-10-18", local.Last7Days[6].Date.String())

	earlier := ComputeStats(orders, nil, nil, time.Date(2026, time.October, 18, 0, 5, 0, 0, time.UTC))
	assert.Zero(t, earlier.TodayOrders)
}
