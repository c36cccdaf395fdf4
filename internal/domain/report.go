package domain

import "github.com/shopspring/decimal"

type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type DashboardSummary struct {
	RevenueToday   decimal.Decimal `json:"revenueToday"`
	RevenueWeek    decimal.Decimal `json:"revenueWeek"`
	RevenueMonth   decimal.Decimal `json:"revenueMonth"`
	OrdersByStatus map[string]int  `json:"ordersByStatus"`
	TopProducts    []ProductSales  `json:"topProducts"`
	LowStock       []Product       `json:"lowStock"`
	PointsIssued   int             `json:"pointsIssued"`
	PointsRedeemed int             `json:"pointsRedeemed"`
}
