package storefront

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/advisor"
	"github.com/fairyhunter13/storefront-simulator/internal/catalog"
	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/fairyhunter13/storefront-simulator/internal/notify"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
	"github.com/fairyhunter13/storefront-simulator/internal/queue"
	"github.com/fairyhunter13/storefront-simulator/internal/schedule"
	"github.com/fairyhunter13/storefront-simulator/internal/simulator"
	"github.com/fairyhunter13/storefront-simulator/internal/store"
	"golang.org/x/sync/singleflight"
)

var (
	ErrStopped         = errors.New("storefront engine stopped")
	ErrShuttingDown    = errors.New("storefront is shutting down")
	ErrCheckoutPending = errors.New("checkout already in progress")
	ErrAlreadyRunning  = errors.New("storefront engine already running")
)

const publishTimeout = 5 * time.Second

// OrderPublisher receives every placed order.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, o model.Order) error
}

// Options configure an Engine. Zero values get sensible defaults.
type Options struct {
	Clock          schedule.Clock
	AddToCartDelay time.Duration
	CheckoutDelay  time.Duration
	NoticeTTL      time.Duration
	TickInterval   time.Duration
	Seed           uint64
	TrafficWindow  int
	MailboxBuffer  int
	Advisor        advisor.Advisor
	Publisher      OrderPublisher
	NewOrderID     func() string
}

func (o *Options) setDefaults() {
	if o.Clock == nil {
		o.Clock = schedule.System{}
	}
	if o.NoticeTTL <= 0 {
		o.NoticeTTL = notify.DefaultTTL
	}
	if o.TickInterval <= 0 {
		o.TickInterval = simulator.DefaultInterval
	}
	if o.Advisor == nil {
		o.Advisor = advisor.Unavailable()
	}
}

// Engine serializes every state transition through one goroutine (Run).
// Public methods enqueue work on the mailbox and wait for the loop.
type Engine struct {
	opts    Options
	clock   schedule.Clock
	catalog *catalog.Catalog

	state   *State
	tasks   *schedule.Tasks
	mailbox *queue.Queue[any]

	noticeTimer schedule.Timer
	tickTimer   schedule.Timer
	tickGen     uint64

	checkoutID    schedule.TaskID
	checkoutScope schedule.Scope

	flights   singleflight.Group
	publishes sync.WaitGroup
	running   atomic.Bool
	closing   atomic.Bool
	done      chan struct{}
}

func New(cat *catalog.Catalog, opts Options) *Engine {
	opts.setDefaults()
	ledger := store.NewLedger()
	if opts.NewOrderID != nil {
		ledger = store.NewLedgerWithIDs(opts.NewOrderID)
	}
	return &Engine{
		opts:    opts,
		clock:   opts.Clock,
		catalog: cat,
		state:   NewState(ledger, simulator.New(opts.Seed, opts.TrafficWindow)),
		tasks:   schedule.NewTasks(opts.Clock),
		mailbox: queue.New[any](opts.MailboxBuffer),
		done:    make(chan struct{}),
	}
}

// Catalog returns the read-only product list.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Run processes events until ctx is done. Pending tasks are dropped on exit.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(e.done)
	e.mailbox.Start(ctx, 1000)
	if e.state.View == ViewDashboard {
		e.startTicker()
	}
	obs.Logger.Info("storefront_loop_started", "view", e.state.View)
	for {
		select {
		case <-ctx.Done():
			e.mailbox.CloseIntake()
			e.teardown()
			obs.Logger.Info("storefront_loop_stopped")
			return nil
		case ev := <-e.mailbox.Out():
			e.handle(ev)
			e.mailbox.MarkProcessed()
			obs.MailboxDepth.Set(float64(e.mailbox.QueueDepth()))
		}
	}
}

// StartShutdown rejects further mutations. Reads keep working.
func (e *Engine) StartShutdown() { e.closing.Store(true) }

func (e *Engine) IsShuttingDown() bool { return e.closing.Load() }

// DrainUntil waits until the mailbox is empty and no delayed task is
// pending, or ctx is done.
func (e *Engine) DrainUntil(ctx context.Context) bool {
	for {
		pending, err := call(ctx, e, func() int { return e.tasks.Pending("") })
		if err != nil {
			return false
		}
		if pending == 0 && e.mailbox.DrainUntil(ctx) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// MailboxMetrics exposes the mailbox counters.
func (e *Engine) MailboxMetrics() (enq, proc uint64, backlog, depth int) {
	return e.mailbox.Metrics()
}

// loop events
type (
	command       struct{ run func() }
	checkoutFired struct{ task schedule.TaskID }
	tickFired     struct{ gen uint64 }
	noticeExpired struct{ gen uint64 }
	insightReady  struct{ productID, text string }
)

type addFired struct {
	task    schedule.TaskID
	product model.Product
}

func (e *Engine) post(ev any) { e.mailbox.Enqueue(ev) }

// handle is the single update function of the loop.
func (e *Engine) handle(ev any) {
	now := e.clock.Now()
	switch ev := ev.(type) {
	case command:
		ev.run()
	case addFired:
		if !e.tasks.Complete(ev.task) {
			obs.Logger.Debug("stale_task_dropped", "task_id", ev.task, "kind", "add_to_cart")
			return
		}
		line, gen := e.state.AddToCart(ev.product, now)
		e.armNoticeExpiry(gen)
		obs.CartAdds.Inc()
		obs.Logger.Info("cart_item_added", "product_id", line.ID, "quantity", line.Quantity, "item_count", e.state.Cart.ItemCount(), "lines", e.state.Cart.Len())
	case checkoutFired:
		if !e.tasks.Complete(ev.task) {
			obs.Logger.Debug("stale_task_dropped", "task_id", ev.task, "kind", "checkout")
			return
		}
		e.checkoutID = 0
		o, gen := e.state.Checkout(now, e.checkoutScope == scopeCartDrawer)
		e.armNoticeExpiry(gen)
		total, _ := o.Total.Float64()
		obs.OrdersPlaced.Inc()
		obs.OrderValue.Observe(total)
		obs.Logger.Info("order_placed", "order_id", o.ID, "total", o.Total.StringFixed(2), "items", len(o.Items), "order_count", e.state.Ledger.Len())
		e.publish(o)
	case tickFired:
		if ev.gen != e.tickGen || !e.state.Tick(now) {
			return
		}
		e.recordTick()
		e.armTick(ev.gen)
	case noticeExpired:
		if e.state.ExpireNotice(ev.gen) {
			obs.Logger.Debug("notification_expired", "generation", ev.gen)
		}
	case insightReady:
		e.state.StoreInsight(ev.productID, ev.text)
	default:
		obs.Logger.Warn("unknown_event", "type", ev)
	}
}

func (e *Engine) teardown() {
	if n := e.tasks.CancelAll(); n > 0 {
		obs.Logger.Info("pending_tasks_dropped", "count", n)
	}
	e.stopTicker()
	if e.noticeTimer != nil {
		e.noticeTimer.Stop()
	}
	e.publishes.Wait()
}

func (e *Engine) armNoticeExpiry(gen uint64) {
	if e.noticeTimer != nil {
		e.noticeTimer.Stop()
	}
	e.noticeTimer = e.clock.AfterFunc(e.opts.NoticeTTL, func() { e.post(noticeExpired{gen: gen}) })
}

func (e *Engine) startTicker() {
	e.tickGen++
	e.armTick(e.tickGen)
	obs.Logger.Info("simulator_started", "interval", e.opts.TickInterval.String())
}

func (e *Engine) armTick(gen uint64) {
	e.tickTimer = e.clock.AfterFunc(e.opts.TickInterval, func() { e.post(tickFired{gen: gen}) })
}

func (e *Engine) stopTicker() {
	e.tickGen++
	if e.tickTimer != nil {
		e.tickTimer.Stop()
		e.tickTimer = nil
	}
}

func (e *Engine) recordTick() {
	obs.SimulatorTicks.Inc()
	for _, svc := range e.state.Sim.Services() {
		obs.ServiceLatency.WithLabelValues(svc.Name).Set(svc.LatencyMs)
		obs.ServiceRPS.WithLabelValues(svc.Name).Set(svc.RequestsPerSecond)
		for _, st := range []model.ServiceStatus{model.StatusOperational, model.StatusDegraded, model.StatusDown} {
			v := 0.0
			if svc.Status == st {
				v = 1
			}
			obs.ServiceStatus.WithLabelValues(svc.Name, string(st)).Set(v)
		}
	}
}

func (e *Engine) publish(o model.Order) {
	if e.opts.Publisher == nil {
		return
	}
	e.publishes.Add(1)
	go func() {
		defer e.publishes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := e.opts.Publisher.PublishOrderPlaced(ctx, o); err != nil {
			obs.Logger.Error("order_publish_failed", "order_id", o.ID, "error", err)
			return
		}
		obs.Logger.Info("order_published", "order_id", o.ID)
	}()
}

// leave tears down the scope of a view or the cart drawer.
func (e *Engine) leave(scope schedule.Scope) {
	n := e.tasks.CancelScope(scope)
	if n == 0 {
		return
	}
	obs.CancelledTasks.WithLabelValues(string(scope)).Add(float64(n))
	obs.Logger.Info("pending_tasks_cancelled", "scope", scope, "count", n)
}

// call runs fn on the loop and returns its result.
func call[T any](ctx context.Context, e *Engine, fn func() T) (T, error) {
	var zero T
	reply := make(chan T, 1)
	if !e.mailbox.Enqueue(command{run: func() { reply <- fn() }}) {
		return zero, ErrStopped
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-e.done:
		return zero, ErrStopped
	}
}
