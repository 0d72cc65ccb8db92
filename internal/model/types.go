// Package model defines domain types used by the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are immutable once loaded.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Stock       int64           `json:"stock"`
}

// CartLine is one product in the cart together with its quantity.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SumLines is the single summation rule shared by the cart and the ledger.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// Order is a finalized checkout. Items is a private copy of the cart lines.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Severity tags a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

// Notification is a transient status message.
type Notification struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// ServiceStatus is the simulated health state of a service.
type ServiceStatus string

const (
	StatusOperational ServiceStatus = "OPERATIONAL"
	StatusDegraded    ServiceStatus = "DEGRADED"
	StatusDown        ServiceStatus = "DOWN"
)

// ServiceHealth is one simulated service record on the dashboard.
type ServiceHealth struct {
	Name              string        `json:"name"`
	Status            ServiceStatus `json:"status"`
	LatencyMs         float64       `json:"latency_ms"`
	Uptime            float64       `json:"uptime"`
	RequestsPerSecond float64       `json:"requests_per_second"`
}

// TrafficPoint is one sample of the ingress traffic series.
type TrafficPoint struct {
	Time     string    `json:"time"`
	At       time.Time `json:"at"`
	Requests int       `json:"requests"`
}
