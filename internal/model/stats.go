package model

import "github.com/shopspring/decimal"

// DailyStat is one day of the dashboard series.
type DailyStat struct {
	Date     Date            `json:"date"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	NewUsers int             `json:"newUsers"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalUsers        int                 `json:"totalUsers"`
	TotalOrders       int                 `json:"totalOrders"`
	TotalProducts     int                 `json:"totalProducts"`
	TodayOrders       int                 `json:"todayOrders"`
	MonthlyRevenue    decimal.Decimal     `json:"monthlyRevenue"`
	MonthlyOrders     int                 `json:"monthlyOrders"`
	AverageOrderValue decimal.Decimal     `json:"averageOrderValue"`
	Last7Days         []DailyStat         `json:"last7Days"`
	CategoryBreakdown map[string]int      `json:"categoryBreakdown"`
	StatusBreakdown   map[OrderStatus]int `json:"statusBreakdown"`
}
