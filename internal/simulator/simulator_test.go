package simulator

import (
	"testing"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(s *Simulator, n int) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Tick(start.Add(time.Duration(i) * DefaultInterval))
	}
}

func TestSimulatorBounds(t *testing.T) {
	for _, n := range []int{0, 1, 5, 19, 20, 21, 500} {
		s := New(42, 0)
		run(s, n)

		assert.Len(t, s.Traffic(), min(n, DefaultTrafficWindow), "ticks=%d", n)
		for _, svc := range s.Services() {
			assert.GreaterOrEqual(t, svc.LatencyMs, float64(20), "%s latency", svc.Name)
			assert.GreaterOrEqual(t, svc.RequestsPerSecond, float64(0), "%s rps", svc.Name)
			assert.Contains(t, []model.ServiceStatus{model.StatusOperational, model.StatusDegraded}, svc.Status)
		}
		for _, p := range s.Traffic() {
			assert.GreaterOrEqual(t, p.Requests, 1000)
			assert.Less(t, p.Requests, 3000)
		}
	}
}

func TestSimulatorWindowKeepsNewest(t *testing.T) {
	s := New(7, 3)
	run(s, 5)
	tr := s.Traffic()
	require.Len(t, tr, 3)
	assert.Equal(t, "12:00:04", tr[0].Time)
	assert.Equal(t, "12:00:08", tr[2].Time)
}

func TestSimulatorSameSeedSameWalk(t *testing.T) {
	a, b := New(1234, 0), New(1234, 0)
	run(a, 50)
	run(b, 50)
	assert.Equal(t, a.Services(), b.Services())
	assert.Equal(t, a.Traffic(), b.Traffic())

	c := New(4321, 0)
	run(c, 50)
	assert.NotEqual(t, a.Traffic(), c.Traffic())
}

func TestSimulatorServiceSetIsFixed(t *testing.T) {
	s := New(1, 0)
	run(s, 100)
	got := s.Services()
	want := InitialServices()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Uptime, got[i].Uptime)
	}
}

func TestSimulatorLatencyFloor(t *testing.T) {
	s := New(99, 0)
	for i := range s.services {
		s.services[i].LatencyMs = 20
		s.services[i].RequestsPerSecond = 0
	}
	run(s, 200)
	for _, svc := range s.Services() {
		assert.GreaterOrEqual(t, svc.LatencyMs, float64(20))
		assert.GreaterOrEqual(t, svc.RequestsPerSecond, float64(0))
	}
}

func TestSimulatorReset(t *testing.T) {
	s := New(5, 0)
	run(s, 10)
	s.Reset()
	assert.Empty(t, s.Traffic())
	assert.Equal(t, InitialServices(), s.Services())
	assert.Equal(t, uint64(10), s.Ticks())
}

func TestSimulatorCapsTrafficWindow(t *testing.T) {
	s := New(9, 50)
	run(s, 30)
	assert.Len(t, s.Traffic(), MaxTrafficWindow)

	s = New(9, 5)
	run(s, 30)
	assert.Len(t, s.Traffic(), 5)
}
