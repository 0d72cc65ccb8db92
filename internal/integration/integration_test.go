package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/catalog"
	httpapi "github.com/fairyhunter13/storefront-simulator/internal/http"
	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
	"github.com/fairyhunter13/storefront-simulator/internal/storefront"
)

const (
	addDelay      = 20 * time.Millisecond
	checkoutDelay = 50 * time.Millisecond
)

type server struct {
	url    string
	app    *httpapi.App
	engine *storefront.Engine
	client *http.Client
}

// startServer runs the engine on the system clock behind a real listener.
func startServer(t testing.TB) *server {
	t.Helper()
	obs.InitLogger("error")
	e := storefront.New(catalog.Default(), storefront.Options{
		AddToCartDelay: addDelay,
		CheckoutDelay:  checkoutDelay,
		NoticeTTL:      time.Second,
		TickInterval:   20 * time.Millisecond,
		MailboxBuffer:  256,
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = e.Run(ctx)
		close(done)
	}()
	app := httpapi.NewApp(e)
	ts := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return &server{url: ts.URL, app: app, engine: e, client: &http.Client{Timeout: 5 * time.Second}}
}

func (s *server) do(path, body string) (int, error) {
	rd := &bytes.Buffer{}
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	r, err := http.NewRequest(http.MethodPost, s.url+path, rd)
	if err != nil {
		return 0, err
	}
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(r)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *server) post(t testing.TB, path, body string) int {
	t.Helper()
	code, err := s.do(path, body)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return code
}

func (s *server) get(t testing.TB, path string, v any) int {
	t.Helper()
	resp, err := s.client.Get(s.url + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestIntegration_AddCheckoutFlow(t *testing.T) {
	s := startServer(t)
	for _, id := range []string{"p1", "p1", "p6"} {
		if code := s.post(t, "/cart/items", fmt.Sprintf(`{"product_id":%q}`, id)); code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", code)
		}
	}
	var cart storefront.CartView
	waitFor(t, 2*time.Second, func() bool {
		s.get(t, "/cart", &cart)
		return cart.ItemCount == 3
	})
	if cart.Total.StringFixed(2) != "744.98" {
		t.Fatalf("unexpected total %s", cart.Total.StringFixed(2))
	}

	if code := s.post(t, "/checkout", ""); code != http.StatusAccepted {
		t.Fatalf("checkout: expected 202, got %d", code)
	}
	var orders []model.Order
	waitFor(t, 2*time.Second, func() bool {
		s.get(t, "/orders", &orders)
		return len(orders) == 1
	})
	if orders[0].Total.StringFixed(2) != "744.98" || len(orders[0].Items) != 2 {
		t.Fatalf("unexpected order: %+v", orders[0])
	}
	var n model.Notification
	if code := s.get(t, "/notification", &n); code != http.StatusOK || n.Message != "Order placed successfully! Notification sent." {
		t.Fatalf("unexpected notification %d %+v", code, n)
	}
	waitFor(t, 3*time.Second, func() bool {
		return s.get(t, "/notification", nil) == http.StatusNoContent
	})
}

// Many concurrent adds never block and all of them land.
func TestIntegration_ConcurrentAdds(t *testing.T) {
	s := startServer(t)
	concurrency := 20
	perGoroutine := 10
	var wg sync.WaitGroup
	errCh := make(chan error, concurrency*perGoroutine)
	for g := 0; g < concurrency; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				code, err := s.do("/cart/items", `{"product_id":"p5"}`)
				if err != nil {
					errCh <- err
					continue
				}
				if code != http.StatusAccepted {
					errCh <- fmt.Errorf("expected 202, got %d", code)
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}
	var cart storefront.CartView
	waitFor(t, 3*time.Second, func() bool {
		s.get(t, "/cart", &cart)
		return cart.ItemCount == concurrency*perGoroutine
	})
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != concurrency*perGoroutine {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestIntegration_DashboardTicksOnSystemClock(t *testing.T) {
	s := startServer(t)
	if code := s.post(t, "/view", `{"view":"dashboard"}`); code != http.StatusOK {
		t.Fatalf("navigate: expected 200, got %d", code)
	}
	var d storefront.DashboardView
	waitFor(t, 3*time.Second, func() bool {
		s.get(t, "/dashboard", &d)
		return len(d.Traffic) >= 3
	})
	for _, svc := range d.Services {
		if svc.LatencyMs < 20 {
			t.Fatalf("latency below floor: %+v", svc)
		}
	}
}

func TestIntegration_GracefulDrain(t *testing.T) {
	s := startServer(t)
	s.post(t, "/cart/items", `{"product_id":"p2"}`)
	s.app.StartShutdown()
	if code := s.post(t, "/cart/items", `{"product_id":"p2"}`); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !s.engine.DrainUntil(ctx) {
		t.Fatalf("drain timeout")
	}
	var cart storefront.CartView
	s.get(t, "/cart", &cart)
	if cart.ItemCount != 1 {
		t.Fatalf("pending add should complete during drain, got %+v", cart)
	}
}

// to run: go test -bench=. ./internal/integration -run ^$
func BenchmarkAddToCart(b *testing.B) {
	s := startServer(b)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = s.do("/cart/items", `{"product_id":"p3"}`)
		}
	})
}
