package storefront

import (
	"context"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
	"github.com/fairyhunter13/storefront-simulator/internal/schedule"
)

func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	return call(ctx, e, func() Snapshot {
		s := e.state.snapshot()
		s.PendingAdds = e.tasks.Pending("") - e.checkoutPendingCount()
		s.CheckoutPending = e.checkoutPendingCount() == 1
		return s
	})
}

func (e *Engine) Cart(ctx context.Context) (CartView, error) {
	return call(ctx, e, e.state.cartView)
}

func (e *Engine) Orders(ctx context.Context) ([]model.Order, error) {
	return call(ctx, e, e.state.Ledger.Orders)
}

// Notification returns the visible notification, or nil when none is shown.
func (e *Engine) Notification(ctx context.Context) (*model.Notification, error) {
	return call(ctx, e, e.state.notification)
}

func (e *Engine) Dashboard(ctx context.Context) (DashboardView, error) {
	return call(ctx, e, e.state.dashboardView)
}

func (e *Engine) View(ctx context.Context) (View, error) {
	return call(ctx, e, func() View { return e.state.View })
}

// Navigate switches the active view. Leaving a view cancels the delayed work
// it owns. Entering the dashboard restarts the simulator from the initial
// service table.
func (e *Engine) Navigate(ctx context.Context, v View) (View, error) {
	if e.closing.Load() {
		return "", ErrShuttingDown
	}
	return call(ctx, e, func() View {
		left, changed := e.state.Navigate(v)
		if !changed {
			return v
		}
		e.leave(left.scope())
		if left == ViewDashboard {
			e.stopTicker()
		}
		if v == ViewDashboard {
			e.startTicker()
		}
		obs.Logger.Info("view_changed", "from", left, "to", v)
		return v
	})
}

// SetCartOpen opens or closes the cart drawer. Closing it cancels a pending
// checkout started from the drawer.
func (e *Engine) SetCartOpen(ctx context.Context, open bool) (CartView, error) {
	if e.closing.Load() {
		return CartView{}, ErrShuttingDown
	}
	return call(ctx, e, func() CartView {
		if e.state.CartOpen && !open {
			e.leave(scopeCartDrawer)
		}
		e.state.CartOpen = open
		return e.state.cartView()
	})
}

// AddToCart schedules an add after the configured delay. Rapid calls are
// independent and all apply, in firing order.
func (e *Engine) AddToCart(ctx context.Context, productID string) (schedule.TaskID, error) {
	if e.closing.Load() {
		return 0, ErrShuttingDown
	}
	p, err := e.catalog.Get(productID)
	if err != nil {
		return 0, err
	}
	return call(ctx, e, func() schedule.TaskID {
		id := e.tasks.Schedule(e.state.View.scope(), e.opts.AddToCartDelay, func(id schedule.TaskID) {
			e.post(addFired{task: id, product: p})
		})
		obs.Logger.Debug("add_to_cart_scheduled", "task_id", id, "product_id", p.ID, "view", e.state.View)
		return id
	})
}

// RemoveFromCart drops the whole line for id. Unknown ids are a no-op.
func (e *Engine) RemoveFromCart(ctx context.Context, productID string) (bool, error) {
	if e.closing.Load() {
		return false, ErrShuttingDown
	}
	return call(ctx, e, func() bool {
		line, removed := e.state.RemoveFromCart(productID)
		if removed {
			obs.CartRemoves.Inc()
			obs.Logger.Info("cart_item_removed", "product_id", productID, "quantity", line.Quantity, "lines", e.state.Cart.Len())
		}
		return removed
	})
}

type checkoutResult struct {
	id  schedule.TaskID
	err error
}

// Checkout schedules order placement after the configured delay. The cart
// is snapshotted when the task fires, not when it is scheduled.
func (e *Engine) Checkout(ctx context.Context) (schedule.TaskID, error) {
	if e.closing.Load() {
		return 0, ErrShuttingDown
	}
	res, err := call(ctx, e, func() checkoutResult {
		if e.checkoutPendingCount() == 1 {
			return checkoutResult{err: ErrCheckoutPending}
		}
		scope := e.state.View.scope()
		if e.state.CartOpen {
			scope = scopeCartDrawer
		}
		e.checkoutScope = scope
		e.checkoutID = e.tasks.Schedule(scope, e.opts.CheckoutDelay, func(id schedule.TaskID) {
			e.post(checkoutFired{task: id})
		})
		obs.Logger.Info("checkout_scheduled", "task_id", e.checkoutID, "scope", scope, "items", e.state.Cart.ItemCount())
		return checkoutResult{id: e.checkoutID}
	})
	if err != nil {
		return 0, err
	}
	return res.id, res.err
}

func (e *Engine) checkoutPendingCount() int {
	if e.checkoutID != 0 && e.tasks.Has(e.checkoutID) {
		return 1
	}
	return 0
}

// Insight returns product advice. Results, fallbacks included, are cached per
// product for the life of the engine; concurrent misses share one call.
func (e *Engine) Insight(ctx context.Context, productID string) (string, error) {
	p, err := e.catalog.Get(productID)
	if err != nil {
		return "", err
	}
	cached, err := call(ctx, e, func() *string {
		text, ok := e.state.Insights[productID]
		if !ok {
			return nil
		}
		return &text
	})
	if err != nil {
		return "", err
	}
	if cached != nil {
		obs.AdvisorRequests.WithLabelValues("insight", "cache_hit").Inc()
		return *cached, nil
	}
	v, _, _ := e.flights.Do(productID, func() (any, error) {
		text := e.opts.Advisor.GetInsight(context.WithoutCancel(ctx), p)
		e.post(insightReady{productID: productID, text: text})
		return text, nil
	})
	return v.(string), nil
}

// Support answers a chat message with the active view as context.
func (e *Engine) Support(ctx context.Context, message string) (string, error) {
	view, err := e.View(ctx)
	if err != nil {
		return "", err
	}
	return e.opts.Advisor.Support(ctx, message, string(view)), nil
}
