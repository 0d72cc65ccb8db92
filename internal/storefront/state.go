// Package storefront owns the session state: active view, cart, order
// history, notification, dashboard simulator and insight cache. All of it is
// mutated by a single event loop; see Engine.
package storefront

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/fairyhunter13/storefront-simulator/internal/notify"
	"github.com/fairyhunter13/storefront-simulator/internal/schedule"
	"github.com/fairyhunter13/storefront-simulator/internal/simulator"
	"github.com/fairyhunter13/storefront-simulator/internal/store"
	"github.com/shopspring/decimal"
)

// View is a top-level page.
type View string

const (
	ViewStorefront View = "storefront"
	ViewDashboard  View = "dashboard"
	ViewOrders     View = "orders"
)

// ParseView accepts the view names and the legacy page aliases.
func ParseView(s string) (View, error) {
	switch s {
	case "storefront", "home":
		return ViewStorefront, nil
	case "dashboard", "admin":
		return ViewDashboard, nil
	case "orders":
		return ViewOrders, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

const scopeCartDrawer schedule.Scope = "cart_drawer"

func (v View) scope() schedule.Scope { return schedule.Scope("view:" + string(v)) }

// State is the explicit session state. Its methods are the transitions;
// they do no I/O and schedule nothing.
type State struct {
	View     View
	CartOpen bool
	Cart     *store.Cart
	Ledger   *store.Ledger
	Notice   *notify.Emitter
	Sim      *simulator.Simulator
	Insights map[string]string
}

func NewState(ledger *store.Ledger, sim *simulator.Simulator) *State {
	return &State{
		View:     ViewStorefront,
		Cart:     store.NewCart(),
		Ledger:   ledger,
		Notice:   notify.NewEmitter(),
		Sim:      sim,
		Insights: make(map[string]string),
	}
}

// AddToCart applies an add and emits the success notification.
func (s *State) AddToCart(p model.Product, now time.Time) (model.CartLine, uint64) {
	line := s.Cart.Add(p)
	gen := s.Notice.Emit(fmt.Sprintf("Added %s to cart", p.Name), model.SeveritySuccess, now)
	return line, gen
}

// RemoveFromCart drops the line for id and returns what was removed.
func (s *State) RemoveFromCart(id string) (model.CartLine, bool) {
	line, ok := s.Cart.Get(id)
	if !ok {
		return model.CartLine{}, false
	}
	s.Cart.Remove(id)
	return line, true
}

// Checkout snapshots the cart into the ledger, clears the cart and emits the
// success notification in one step. A checkout started from the drawer
// closes it.
func (s *State) Checkout(now time.Time, fromDrawer bool) (model.Order, uint64) {
	o := s.Ledger.Checkout(s.Cart.Lines(), now)
	s.Cart.Clear()
	if fromDrawer {
		s.CartOpen = false
	}
	gen := s.Notice.Emit("Order placed successfully! Notification sent.", model.SeveritySuccess, now)
	return o, gen
}

// Navigate switches the active view and reports the view that was left.
// Entering the dashboard remounts the simulator.
func (s *State) Navigate(v View) (left View, changed bool) {
	if v == s.View {
		return s.View, false
	}
	left = s.View
	s.View = v
	if v == ViewDashboard {
		s.Sim.Reset()
	}
	return left, true
}

// Tick advances the simulator. It is ignored outside the dashboard.
func (s *State) Tick(now time.Time) bool {
	if s.View != ViewDashboard {
		return false
	}
	s.Sim.Tick(now)
	return true
}

func (s *State) ExpireNotice(gen uint64) bool { return s.Notice.Expire(gen) }

func (s *State) StoreInsight(productID, text string) { s.Insights[productID] = text }

// Snapshot is a read-only copy of the whole state.
type Snapshot struct {
	View            View                `json:"view"`
	CartOpen        bool                `json:"cart_open"`
	Cart            CartView            `json:"cart"`
	Orders          []model.Order       `json:"orders"`
	Notification    *model.Notification `json:"notification,omitempty"`
	Dashboard       DashboardView       `json:"dashboard"`
	PendingAdds     int                 `json:"pending_adds"`
	CheckoutPending bool                `json:"checkout_pending"`
}

// CartView is what the cart drawer and navbar badge render.
type CartView struct {
	Lines     []model.CartLine `json:"lines"`
	Total     decimal.Decimal  `json:"total"`
	ItemCount int              `json:"item_count"`
	Open      bool             `json:"open"`
}

// DashboardView is what the admin dashboard renders.
type DashboardView struct {
	Active   bool                  `json:"active"`
	Ticks    uint64                `json:"ticks"`
	Services []model.ServiceHealth `json:"services"`
	Traffic  []model.TrafficPoint  `json:"traffic"`
}

func (s *State) cartView() CartView {
	return CartView{Lines: s.Cart.Lines(), Total: s.Cart.Total(), ItemCount: s.Cart.ItemCount(), Open: s.CartOpen}
}

func (s *State) dashboardView() DashboardView {
	return DashboardView{
		Active:   s.View == ViewDashboard,
		Ticks:    s.Sim.Ticks(),
		Services: s.Sim.Services(),
		Traffic:  s.Sim.Traffic(),
	}
}

func (s *State) notification() *model.Notification {
	n, ok := s.Notice.Current()
	if !ok {
		return nil
	}
	return &n
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		View:         s.View,
		CartOpen:     s.CartOpen,
		Cart:         s.cartView(),
		Orders:       s.Ledger.Orders(),
		Notification: s.notification(),
		Dashboard:    s.dashboardView(),
	}
}
