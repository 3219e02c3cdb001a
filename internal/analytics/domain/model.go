package domain

import (
	"context"

	"github.com/shopspring/decimal"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
)

// Analytics is the dashboard summary. It is derived on every request and
// never stored.
type Analytics struct {
	TotalOrders      int             `json:"totalOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalProducts    int             `json:"totalProducts"`
	TotalLocations   int             `json:"totalLocations"`
	OrdersToday      int             `json:"ordersToday"`
	RevenueToday     decimal.Decimal `json:"revenueToday"`
	TopProducts      []ProductStat   `json:"topProducts"`
	OrdersByLocation []LocationStat  `json:"ordersByLocation"`
	OrdersByStatus   []StatusCount   `json:"ordersByStatus"`
	RevenueByMonth   []MonthRevenue  `json:"revenueByMonth"`
}

type ProductStat struct {
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type LocationStat struct {
	LocationID string          `json:"locationId"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Revenue    decimal.Decimal `json:"revenue"`
	Products   int             `json:"products"`
}

type StatusCount struct {
	Status orderdomain.Status `json:"status"`
	Count  int                `json:"count"`
}

// MonthRevenue is reserved for a per-month revenue series; it is never filled.
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Service interface {
	Dashboard(ctx context.Context) (*Analytics, error)
}
