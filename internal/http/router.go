package httpapi

import (
	"expvar"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", app.listProductsHandler)
	mux.HandleFunc("GET /products/{id}", app.getProductHandler)
	mux.HandleFunc("GET /products/{id}/insight", app.insightHandler)
	mux.HandleFunc("POST /support/chat", app.supportChatHandler)

	mux.HandleFunc("GET /cart", app.getCartHandler)
	mux.HandleFunc("POST /cart/items", app.addCartItemHandler)
	mux.HandleFunc("DELETE /cart/items/{id}", app.removeCartItemHandler)
	mux.HandleFunc("POST /cart/open", app.cartDrawerHandler(true))
	mux.HandleFunc("POST /cart/close", app.cartDrawerHandler(false))
	mux.HandleFunc("POST /checkout", app.checkoutHandler)
	mux.HandleFunc("GET /orders", app.ordersHandler)
	mux.HandleFunc("GET /notification", app.notificationHandler)

	mux.HandleFunc("GET /view", app.getViewHandler)
	mux.HandleFunc("POST /view", app.setViewHandler)
	mux.HandleFunc("GET /dashboard", app.dashboardHandler)
	mux.HandleFunc("GET /state", app.stateHandler)

	mux.HandleFunc("GET /healthz", app.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /debug/mailbox", app.mailboxHandler)
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)
	return WithRequestID(WithLogging(WithRecovery(mux)))
}
