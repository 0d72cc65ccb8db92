package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/catalog"
	httpopenapi "github.com/fairyhunter13/storefront-simulator/internal/http/openapi"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
	"github.com/fairyhunter13/storefront-simulator/internal/schedule"
	"github.com/fairyhunter13/storefront-simulator/internal/storefront"
	"github.com/go-playground/validator/v10"
)

type App struct {
	Engine   *storefront.Engine
	Catalog  *catalog.Catalog
	closing  atomic.Bool
	started  time.Time
	validate *validator.Validate
}

type pendingAck struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	TaskID    schedule.TaskID `json:"task_id"`
	ProductID string          `json:"product_id,omitempty"`
	Accepted  string          `json:"accepted_at"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

type viewRequest struct {
	View string `json:"view" validate:"required"`
}

func NewApp(e *storefront.Engine) *App {
	return &App{Engine: e, Catalog: e.Catalog(), started: time.Now(), validate: validator.New()}
}

func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Engine.StartShutdown()
}

func (a *App) shuttingDown(w http.ResponseWriter) bool {
	if a.closing.Load() || a.Engine.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

// decode enforces a JSON body with no unknown fields and validates it.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	if err := a.validate.Struct(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return false
	}
	return true
}

// engineError maps loop errors onto HTTP statuses.
func engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, storefront.ErrShuttingDown), errors.Is(err, storefront.ErrStopped):
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
	case errors.Is(err, storefront.ErrCheckoutPending):
		WriteJSONError(w, http.StatusConflict, "checkout_in_progress", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteJSONError(w, http.StatusServiceUnavailable, "timeout", err.Error())
	default:
		obs.Logger.Error("engine_call_failed", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Catalog.All())
}

func (a *App) getProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := a.Catalog.Get(r.PathValue("id"))
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) insightHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	text, err := a.Engine.Insight(r.Context(), id)
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"product_id": id, "insight": text})
}

func (a *App) supportChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "message is required")
		return
	}
	reply, err := a.Engine.Support(r.Context(), req.Message)
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := a.Engine.Cart(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (a *App) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	if a.shuttingDown(w) {
		return
	}
	var req addItemRequest
	if !a.decode(w, r, &req) {
		return
	}
	task, err := a.Engine.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		engineError(w, err)
		return
	}
	ack := pendingAck{
		Status:    "pending",
		RequestID: RequestIDFromContext(r.Context()),
		TaskID:    task,
		ProductID: req.ProductID,
		Accepted:  time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusAccepted, ack)
	obs.Logger.Info("add_to_cart_accepted", "request_id", ack.RequestID, "task_id", task, "product_id", req.ProductID)
}

func (a *App) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	if a.shuttingDown(w) {
		return
	}
	if _, err := a.Engine.RemoveFromCart(r.Context(), r.PathValue("id")); err != nil {
		engineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) cartDrawerHandler(open bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.shuttingDown(w) {
			return
		}
		cart, err := a.Engine.SetCartOpen(r.Context(), open)
		if err != nil {
			engineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cart)
	}
}

func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	if a.shuttingDown(w) {
		return
	}
	cart, err := a.Engine.Cart(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	if cart.ItemCount == 0 {
		WriteJSONError(w, http.StatusConflict, "cart_empty", "")
		return
	}
	task, err := a.Engine.Checkout(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	ack := pendingAck{
		Status:    "pending",
		RequestID: RequestIDFromContext(r.Context()),
		TaskID:    task,
		Accepted:  time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusAccepted, ack)
	obs.Logger.Info("checkout_accepted", "request_id", ack.RequestID, "task_id", task, "item_count", cart.ItemCount)
}

func (a *App) ordersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.Engine.Orders(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (a *App) notificationHandler(w http.ResponseWriter, r *http.Request) {
	n, err := a.Engine.Notification(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (a *App) getViewHandler(w http.ResponseWriter, r *http.Request) {
	v, err := a.Engine.View(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]storefront.View{"view": v})
}

func (a *App) setViewHandler(w http.ResponseWriter, r *http.Request) {
	if a.shuttingDown(w) {
		return
	}
	var req viewRequest
	if !a.decode(w, r, &req) {
		return
	}
	target, err := storefront.ParseView(req.View)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "unknown_view", err.Error())
		return
	}
	v, err := a.Engine.Navigate(r.Context(), target)
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]storefront.View{"view": v})
}

func (a *App) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, err := a.Engine.Dashboard(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *App) stateHandler(w http.ResponseWriter, r *http.Request) {
	s, err := a.Engine.Snapshot(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) mailboxHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Engine.MailboxMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"events_enqueued":  enq,
		"events_processed": proc,
		"backlog_size":     backlog,
		"queue_depth":      depth,
		"uptime_sec":       time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Storefront API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
