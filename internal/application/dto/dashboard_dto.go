package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`   // pedidos no cancelados, histórico
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"` // mes en curso
	TotalOrders    int             `json:"totalOrders"`
	PendingOrders  int             `json:"pendingOrders"`
	TotalCustomers int             `json:"totalCustomers"`
	ActiveProducts int             `json:"activeProducts"`
	OrdersByStatus map[string]int  `json:"ordersByStatus"`
	RecentOrders   []OrderResponse `json:"recentOrders"`
	MonthLabel     string          `json:"monthLabel"` // ej: "October 2026"
}
