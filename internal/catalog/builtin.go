package catalog

import (
	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/shopspring/decimal"
)

func builtin() []model.Product {
	return []model.Product{
		{
			ID:          "p1",
			Name:        "Ergonomic Developer Chair",
			Price:       decimal.RequireFromString("349.99"),
			Category:    "Furniture",
			Image:       "https://images.unsplash.com/photo-1592078615290-033ee584e267?auto=format&fit=crop&q=80&w=600",
			Description: "High-performance chair for long coding sessions.",
			Stock:       50,
		},
		{
			ID:          "p2",
			Name:        "Mechanical Keyboard 60%",
			Price:       decimal.RequireFromString("129.50"),
			Category:    "Electronics",
			Image:       "https://images.unsplash.com/photo-1595225476474-87563907a212?auto=format&fit=crop&q=80&w=600",
			Description: "Clicky blue switches with RGB backlighting.",
			Stock:       120,
		},
		{
			ID:          "p3",
			Name:        "4K Ultra Monitor",
			Price:       decimal.RequireFromString("499.00"),
			Category:    "Electronics",
			Image:       "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?auto=format&fit=crop&q=80&w=600",
			Description: "Crystal clear display for pixel-perfect design.",
			Stock:       30,
		},
		{
			ID:          "p4",
			Name:        "Wireless Noise Cancelling Headphones",
			Price:       decimal.RequireFromString("299.99"),
			Category:    "Audio",
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&q=80&w=600",
			Description: "Focus on your work with industry-leading noise cancellation.",
			Stock:       85,
		},
		{
			ID:          "p5",
			Name:        "Smart Connectivity Hub",
			Price:       decimal.RequireFromString("89.99"),
			Category:    "Smart Home",
			Image:       "https://images.unsplash.com/photo-1558089748-129605532158?auto=format&fit=crop&q=80&w=600",
			Description: "Control all your devices from one central unit. Features DDR4 memory and RV1109 chip.",
			Stock:       200,
		},
		{
			ID:          "p6",
			Name:        "Holographic Anime Battle Lamp",
			Price:       decimal.RequireFromString("45.00"),
			Category:    "Decor",
			Image:       "https://images.unsplash.com/photo-1563089145-599997674d42?auto=format&fit=crop&q=80&w=600",
			Description: "A stunning visual holographic lamp for your battle station.",
			Stock:       75,
		},
	}
}
