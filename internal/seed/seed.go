// Package seed holds the sample collections served when a collection has
// never been written. Every call returns fresh values.
package seed

import (
	"time"

	"github.com/shopspring/decimal"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
)

var epoch = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func Locations() []locationdomain.Location {
	return []locationdomain.Location{
		{
			ID:          "green-valley-farm",
			Name:        "Green Valley Farm",
			Address:     "1420 County Road 9, Green Valley",
			Coordinates: &locationdomain.Coordinates{Lat: 38.5449, Lng: -121.7405},
			Manager:     "Maria Santos",
			Phone:       "(555) 201-4410",
			IsActive:    true,
			Products:    2,
			ProductAvailability: []locationdomain.AvailabilityEntry{
				{
					Name:     "Heirloom Tomatoes",
					Status:   "available",
					Category: "vegetables",
					Details:  map[string]any{"harvest": "daily", "organic": true},
				},
				{
					Name:          "Sweet Corn",
					Status:        "coming_soon",
					AvailableDate: "2024-07-01",
					Category:      "vegetables",
				},
			},
			CreatedAt: epoch,
		},
		{
			ID:          "riverside-market-stand",
			Name:        "Riverside Market Stand",
			Address:     "88 Water Street, Riverside",
			Coordinates: &locationdomain.Coordinates{Lat: 38.5816, Lng: -121.4944},
			Manager:     "Tom Becker",
			Phone:       "(555) 201-7723",
			IsActive:    true,
			Products:    2,
			ProductAvailability: []locationdomain.AvailabilityEntry{
				{Name: "Free Range Eggs", Status: "available", Category: "poultry"},
				{Name: "Block Ice", Status: "limited", Category: "ice"},
			},
			CreatedAt: epoch,
		},
		{
			ID:        "hilltop-orchard",
			Name:      "Hilltop Orchard",
			Address:   "3 Orchard Lane, Hilltop",
			Manager:   "Priya Nair",
			Phone:     "(555) 201-0098",
			IsActive:  false,
			Products:  0,
			CreatedAt: epoch,
		},
	}
}

func Products() []productdomain.Product {
	locations := Locations()
	greenValley, riverside := &locations[0], &locations[1]

	return []productdomain.Product{
		{
			Slug:         "heirloom-tomatoes",
			Title:        "Heirloom Tomatoes",
			Category:     productdomain.CategoryVegetables,
			Price:        "$4.50/lb",
			Availability: productdomain.AvailabilityInStock,
			Featured:     true,
			Image:        "/images/products/heirloom-tomatoes.jpg",
			Content:      "Vine ripened heirloom varieties picked the morning they are sold.",
			Stock:        120,
			Orders:       2,
			LocationID:   greenValley.ID,
			Location:     greenValley,
			CreatedAt:    epoch,
			UpdatedAt:    epoch,
		},
		{
			Slug:         "organic-salad-greens",
			Title:        "Organic Salad Greens",
			Category:     productdomain.CategoryVegetables,
			Price:        "$6.00/bag",
			Availability: productdomain.AvailabilityLimitedStock,
			Image:        "/images/products/salad-greens.jpg",
			Content:      "A rotating mix of lettuces, arugula and baby kale.",
			Stock:        18,
			Orders:       1,
			LocationID:   greenValley.ID,
			Location:     greenValley,
			CreatedAt:    epoch,
			UpdatedAt:    epoch,
		},
		{
			Slug:         "free-range-eggs",
			Title:        "Free Range Eggs",
			Category:     productdomain.CategoryPoultry,
			Price:        "$7.00/dozen",
			Availability: productdomain.AvailabilityInStock,
			Featured:     true,
			Image:        "/images/products/free-range-eggs.jpg",
			Content:      "Brown eggs from pasture raised hens.",
			Stock:        60,
			Orders:       1,
			LocationID:   riverside.ID,
			Location:     riverside,
			CreatedAt:    epoch,
			UpdatedAt:    epoch,
		},
		{
			Slug:         "block-ice",
			Title:        "Block Ice",
			Category:     productdomain.CategoryIce,
			Price:        "$3.00/block",
			Availability: productdomain.AvailabilityOutOfStock,
			Image:        "/images/products/block-ice.jpg",
			Content:      "Ten pound blocks for coolers and market displays.",
			Stock:        0,
			LocationID:   riverside.ID,
			Location:     riverside,
			CreatedAt:    epoch,
			UpdatedAt:    epoch,
		},
	}
}

func Orders() []orderdomain.Order {
	locations := Locations()
	greenValley, riverside := &locations[0], &locations[1]
	delivery := epoch.Add(72 * time.Hour)

	return []orderdomain.Order{
		{
			ID:            "ORD-1705309200000",
			ProductID:     "heirloom-tomatoes",
			CustomerName:  "Alex Johnson",
			CustomerEmail: "alex@example.com",
			CustomerPhone: "(555) 310-1122",
			Quantity:      3,
			TotalAmount:   decimal.RequireFromString("13.50"),
			Status:        orderdomain.StatusCompleted,
			LocationID:    greenValley.ID,
			Location:      greenValley,
			OrderDate:     epoch,
			DeliveryDate:  &delivery,
		},
		{
			ID:            "ORD-1705312800000",
			ProductID:     "free-range-eggs",
			CustomerName:  "Sam Lee",
			CustomerPhone: "(555) 310-4478",
			Quantity:      2,
			TotalAmount:   decimal.RequireFromString("14.00"),
			Status:        orderdomain.StatusConfirmed,
			LocationID:    riverside.ID,
			Location:      riverside,
			OrderDate:     epoch.Add(time.Hour),
			Notes:         "Pick up after 4pm",
		},
		{
			ID:            "ORD-1705316400000",
			ProductID:     "heirloom-tomatoes",
			CustomerName:  "Dana Whitfield",
			CustomerEmail: "dana@example.com",
			CustomerPhone: "(555) 310-9031",
			Quantity:      1,
			TotalAmount:   decimal.RequireFromString("4.50"),
			Status:        orderdomain.StatusPending,
			LocationID:    greenValley.ID,
			Location:      greenValley,
			OrderDate:     epoch.Add(2 * time.Hour),
		},
		{
			ID:            "ORD-1705320000000",
			ProductID:     "organic-salad-greens",
			CustomerName:  "Chris Ortega",
			CustomerPhone: "(555) 310-6654",
			Quantity:      2,
			TotalAmount:   decimal.RequireFromString("12.00"),
			Status:        orderdomain.StatusCancelled,
			LocationID:    greenValley.ID,
			Location:      greenValley,
			OrderDate:     epoch.Add(3 * time.Hour),
		},
	}
}
