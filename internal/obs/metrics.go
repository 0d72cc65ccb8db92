package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartAdds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_adds_total",
		Help: "Add-to-cart operations applied to the cart",
	})

	CartRemoves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_removes_total",
		Help: "Cart lines removed",
	})

	CancelledTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cancelled_tasks_total",
		Help: "Delayed tasks cancelled because their owner was torn down",
	}, []string{"scope"})

	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders appended to the ledger",
	})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_value",
		Help:    "Order totals",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	AdvisorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_advisor_requests_total",
		Help: "Advisor calls by kind and outcome",
	}, []string{"kind", "outcome"})

	SimulatorTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_simulator_ticks_total",
		Help: "Metrics simulator ticks",
	})

	ServiceLatency = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_simulated_service_latency_ms",
		Help: "Simulated latency per service",
	}, []string{"service"})

	ServiceRPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_simulated_service_rps",
		Help: "Simulated requests per second per service",
	}, []string{"service"})

	ServiceStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_simulated_service_status",
		Help: "1 for the current simulated status of each service, 0 otherwise",
	}, []string{"service", "status"})

	MailboxDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_mailbox_depth",
		Help: "Events waiting for the storefront loop",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "HTTP requests by method, route pattern and status",
	}, []string{"method", "route", "status"})
)
