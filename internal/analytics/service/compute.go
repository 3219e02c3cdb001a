package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/farmstand/internal/analytics/domain"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
)

const topProductsLimit = 5

// Compute derives the dashboard summary. It has no side effects and reads
// nothing beyond its arguments; "today" is now's calendar day in loc.
func Compute(
	products []productdomain.Product,
	locations []locationdomain.Location,
	orders []orderdomain.Order,
	now time.Time,
	loc *time.Location,
) domain.Analytics {
	if loc == nil {
		loc = time.Local
	}

	out := domain.Analytics{
		TotalOrders:      len(orders),
		TotalRevenue:     decimal.Zero,
		TotalProducts:    len(products),
		TotalLocations:   len(locations),
		RevenueToday:     decimal.Zero,
		TopProducts:      topProducts(products, orders),
		OrdersByLocation: byLocation(products, locations, orders),
		OrdersByStatus:   byStatus(orders),
		RevenueByMonth:   []domain.MonthRevenue{},
	}

	ty, tm, td := now.In(loc).Date()
	for _, o := range orders {
		out.TotalRevenue = out.TotalRevenue.Add(o.TotalAmount)
		if y, m, d := o.OrderDate.In(loc).Date(); y == ty && m == tm && d == td {
			out.OrdersToday++
			out.RevenueToday = out.RevenueToday.Add(o.TotalAmount)
		}
	}
	return out
}

func topProducts(products []productdomain.Product, orders []orderdomain.Order) []domain.ProductStat {
	stats := make([]domain.ProductStat, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		stats[i] = domain.ProductStat{Slug: p.Slug, Title: p.Title, Revenue: decimal.Zero}
		if _, seen := index[p.Slug]; !seen {
			index[p.Slug] = i
		}
	}
	for _, o := range orders {
		if i, ok := index[o.ProductID]; ok {
			stats[i].Orders++
			stats[i].Revenue = stats[i].Revenue.Add(o.TotalAmount)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Orders != stats[j].Orders {
			return stats[i].Orders > stats[j].Orders
		}
		if c := stats[i].Revenue.Cmp(stats[j].Revenue); c != 0 {
			return c > 0
		}
		return stats[i].Slug < stats[j].Slug
	})
	if len(stats) > topProductsLimit {
		stats = stats[:topProductsLimit]
	}
	return stats
}

func byLocation(products []productdomain.Product, locations []locationdomain.Location, orders []orderdomain.Order) []domain.LocationStat {
	stats := make([]domain.LocationStat, len(locations))
	index := make(map[string]int, len(locations))
	for i, l := range locations {
		stats[i] = domain.LocationStat{LocationID: l.ID, Name: l.Name, Revenue: decimal.Zero}
		if _, seen := index[l.ID]; !seen {
			index[l.ID] = i
		}
	}
	for _, o := range orders {
		if i, ok := index[embeddedID(o.Location, o.LocationID)]; ok {
			stats[i].Orders++
			stats[i].Revenue = stats[i].Revenue.Add(o.TotalAmount)
		}
	}
	for _, p := range products {
		if i, ok := index[embeddedID(p.Location, p.LocationID)]; ok {
			stats[i].Products++
		}
	}
	return stats
}

func byStatus(orders []orderdomain.Order) []domain.StatusCount {
	counts := make(map[orderdomain.Status]int, len(orders))
	for _, o := range orders {
		counts[o.Status.Normalize()]++
	}
	statuses := orderdomain.Statuses()
	out := make([]domain.StatusCount, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, domain.StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

func embeddedID(loc *locationdomain.Location, fallback string) string {
	if loc != nil && loc.ID != "" {
		return loc.ID
	}
	return fallback
}
