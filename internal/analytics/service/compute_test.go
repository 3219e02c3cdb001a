package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func order(id, product, location string, status orderdomain.Status, amount string, at time.Time) orderdomain.Order {
	return orderdomain.Order{
		ID:          id,
		ProductID:   product,
		LocationID:  location,
		Location:    &locationdomain.Location{ID: location},
		Status:      status,
		TotalAmount: money(amount),
		OrderDate:   at,
		Quantity:    1,
	}
}

func TestComputeTotalsAndToday(t *testing.T) {
	tz := time.FixedZone("farm", -7*3600)
	now := time.Date(2024, 8, 10, 12, 0, 0, 0, tz)

	orders := []orderdomain.Order{
		order("1", "eggs", "a", orderdomain.StatusPending, "10.00", now.Add(-time.Hour)),
		order("2", "eggs", "a", orderdomain.StatusCompleted, "5.25", time.Date(2024, 8, 10, 6, 30, 0, 0, time.UTC)),
		order("3", "corn", "b", orderdomain.StatusCancelled, "2.00", now.Add(-24*time.Hour)),
	}
	locations := []locationdomain.Location{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	products := []productdomain.Product{{Slug: "eggs", LocationID: "a"}, {Slug: "corn", LocationID: "b"}}

	got := Compute(products, locations, orders, now, tz)
	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, 2, got.TotalProducts)
	assert.Equal(t, 2, got.TotalLocations)
	assert.True(t, money("17.25").Equal(got.TotalRevenue))

	// 06:30 UTC on the 10th is still the 9th in the farm's zone.
	assert.Equal(t, 1, got.OrdersToday)
	assert.True(t, money("10").Equal(got.RevenueToday))

	assert.NotNil(t, got.RevenueByMonth)
	assert.Empty(t, got.RevenueByMonth)
}

func TestComputeIsIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)
	products, locations, orders := seed.Products(), seed.Locations(), seed.Orders()

	first := Compute(products, locations, orders, now, time.UTC)
	second := Compute(products, locations, orders, now, time.UTC)
	assert.Equal(t, first, second)
	assert.Equal(t, seed.Orders(), orders)
}

func TestStatusBreakdownIsComplete(t *testing.T) {
	now := time.Now()
	cases := [][]orderdomain.Order{
		nil,
		seed.Orders(),
		{
			order("1", "x", "a", orderdomain.StatusReady, "1", now),
			order("2", "x", "a", orderdomain.StatusReady, "1", now),
		},
		{
			order("1", "x", "a", orderdomain.StatusPending, "1", now),
			order("2", "x", "a", "", "1", now),
			order("3", "x", "a", "shipped", "1", now),
		},
	}
	for _, orders := range cases {
		got := Compute(nil, nil, orders, now, time.UTC)
		require.Len(t, got.OrdersByStatus, 6)

		sum := 0
		for i, entry := range got.OrdersByStatus {
			assert.Equal(t, orderdomain.Statuses()[i], entry.Status)
			assert.GreaterOrEqual(t, entry.Count, 0)
			sum += entry.Count
		}
		assert.Equal(t, got.TotalOrders, sum)
	}
}

func TestStatusBreakdownCountsUnknownAsPending(t *testing.T) {
	now := time.Now()
	got := Compute(nil, nil, []orderdomain.Order{
		order("1", "x", "a", orderdomain.StatusPending, "1", now),
		order("2", "x", "a", "", "1", now),
		order("3", "x", "a", "shipped", "1", now),
	}, now, time.UTC)

	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, orderdomain.StatusPending, got.OrdersByStatus[0].Status)
	assert.Equal(t, 3, got.OrdersByStatus[0].Count)
}

func TestTopProductsOrdering(t *testing.T) {
	now := time.Now()
	var products []productdomain.Product
	for _, slug := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		products = append(products, productdomain.Product{Slug: slug, Title: slug})
	}
	orders := []orderdomain.Order{
		order("1", "c", "x", orderdomain.StatusPending, "1", now),
		order("2", "c", "x", orderdomain.StatusPending, "1", now),
		order("3", "f", "x", orderdomain.StatusPending, "5", now),
		order("4", "b", "x", orderdomain.StatusPending, "9", now),
		order("5", "ghost", "x", orderdomain.StatusPending, "100", now),
	}

	got := Compute(products, nil, orders, now, time.UTC)
	require.Len(t, got.TopProducts, 5)

	var slugs []string
	for _, stat := range got.TopProducts {
		slugs = append(slugs, stat.Slug)
	}
	assert.Equal(t, []string{"c", "b", "f", "a", "d"}, slugs)
	assert.Equal(t, 2, got.TopProducts[0].Orders)
	assert.True(t, money("9").Equal(got.TopProducts[1].Revenue))
}

func TestOrdersByLocation(t *testing.T) {
	now := time.Now()
	locations := []locationdomain.Location{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	products := []productdomain.Product{
		{Slug: "p1", Location: &locationdomain.Location{ID: "a"}},
		{Slug: "p2", LocationID: "a"},
		{Slug: "p3", LocationID: "zzz"},
	}
	embedded := order("1", "p1", "b", orderdomain.StatusPending, "4", now)
	embedded.LocationID = "stale"
	bare := order("2", "p1", "a", orderdomain.StatusPending, "6", now)
	bare.Location = nil

	got := Compute(products, locations, []orderdomain.Order{embedded, bare}, now, time.UTC)
	require.Len(t, got.OrdersByLocation, 2)

	a, b := got.OrdersByLocation[0], got.OrdersByLocation[1]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, 1, a.Orders)
	assert.True(t, money("6").Equal(a.Revenue))
	assert.Equal(t, 2, a.Products)

	assert.Equal(t, 1, b.Orders)
	assert.True(t, money("4").Equal(b.Revenue))
	assert.Equal(t, 0, b.Products)
}
