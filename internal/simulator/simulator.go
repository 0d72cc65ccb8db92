// Package simulator fabricates microservice health metrics for the admin
// dashboard. Nothing here reflects a real signal.
package simulator

import (
	"math/rand/v2"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
)

const (
	DefaultInterval      = 2 * time.Second
	DefaultTrafficWindow = 20
	MaxTrafficWindow     = 20

	minLatencyMs  = 20
	latencyJitter = 20
	rpsJitter     = 50
	rerollChance  = 0.05
	trafficBase   = 1000
	trafficSpread = 2000
	trafficLabel  = "15:04:05"
)

// InitialServices is the fixed service set shown on the dashboard.
func InitialServices() []model.ServiceHealth {
	return []model.ServiceHealth{
		{Name: "API Gateway", Status: model.StatusOperational, LatencyMs: 45, Uptime: 99.99, RequestsPerSecond: 1200},
		{Name: "Auth Service", Status: model.StatusOperational, LatencyMs: 120, Uptime: 99.95, RequestsPerSecond: 300},
		{Name: "Product Catalog", Status: model.StatusOperational, LatencyMs: 85, Uptime: 99.98, RequestsPerSecond: 850},
		{Name: "Cart Service", Status: model.StatusOperational, LatencyMs: 60, Uptime: 99.99, RequestsPerSecond: 400},
		{Name: "Order Service", Status: model.StatusDegraded, LatencyMs: 350, Uptime: 99.50, RequestsPerSecond: 150},
		{Name: "Payment Service", Status: model.StatusOperational, LatencyMs: 200, Uptime: 99.99, RequestsPerSecond: 120},
		{Name: "Notification Service", Status: model.StatusOperational, LatencyMs: 90, Uptime: 99.90, RequestsPerSecond: 80},
	}
}

// Simulator runs a seeded random walk over the service set and keeps a
// sliding window of traffic samples. It is not safe for concurrent use.
type Simulator struct {
	rng      *rand.Rand
	window   int
	services []model.ServiceHealth
	traffic  []model.TrafficPoint
	ticks    uint64
}

// New returns a simulator seeded with seed. A window <= 0 uses the default
// and a window above MaxTrafficWindow is capped.
func New(seed uint64, window int) *Simulator {
	if window <= 0 {
		window = DefaultTrafficWindow
	}
	window = min(window, MaxTrafficWindow)
	return &Simulator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		window:   window,
		services: InitialServices(),
	}
}

// Reset restores the initial services and empties the traffic series. The
// random stream is not rewound.
func (s *Simulator) Reset() {
	s.services = InitialServices()
	s.traffic = nil
}

// Tick advances every service one step and appends one traffic sample.
func (s *Simulator) Tick(now time.Time) {
	for i := range s.services {
		svc := &s.services[i]
		svc.LatencyMs = max(minLatencyMs, svc.LatencyMs+s.uniform(latencyJitter))
		svc.RequestsPerSecond = max(0, svc.RequestsPerSecond+s.uniform(rpsJitter))
		if s.rng.Float64() < rerollChance {
			if s.rng.Float64() < 0.5 {
				svc.Status = model.StatusDegraded
			} else {
				svc.Status = model.StatusOperational
			}
		}
	}
	s.traffic = append(s.traffic, model.TrafficPoint{
		Time:     now.Format(trafficLabel),
		At:       now.UTC(),
		Requests: trafficBase + s.rng.IntN(trafficSpread),
	})
	if over := len(s.traffic) - s.window; over > 0 {
		s.traffic = append(s.traffic[:0:0], s.traffic[over:]...)
	}
	s.ticks++
}

// uniform draws from [-spread, +spread).
func (s *Simulator) uniform(spread float64) float64 {
	return s.rng.Float64()*2*spread - spread
}

func (s *Simulator) Services() []model.ServiceHealth {
	out := make([]model.ServiceHealth, len(s.services))
	copy(out, s.services)
	return out
}

func (s *Simulator) Traffic() []model.TrafficPoint {
	out := make([]model.TrafficPoint, len(s.traffic))
	copy(out, s.traffic)
	return out
}

// Ticks counts ticks since construction, across resets.
func (s *Simulator) Ticks() uint64 { return s.ticks }
