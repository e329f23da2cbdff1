package router

import (
	"net/http"

	"dinekart/internal/handler"
	"dinekart/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Menu      *handler.MenuHandler
	Cart      *handler.CartHandler
	Delivery  *handler.DeliveryHandler
	Promotion *handler.PromotionHandler
	Order     *handler.OrderHandler
	Customer  *handler.CustomerHandler
	Payment   *handler.PaymentHandler
	Admin     *handler.AdminHandler
}

// Config carries the request-level settings of the router.
type Config struct {
	ServiceName string
	APIKey      string
	CORSOrigin  string
	Verifier    middleware.TokenVerifier
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, cfg Config, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Storefront
	mux.HandleFunc("GET /api/menu", h.Menu.List)
	mux.HandleFunc("GET /api/menu/{id}", h.Menu.GetByID)

	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.Cart.RemoveItem)

	mux.HandleFunc("GET /api/delivery/slots", h.Delivery.Slots)
	mux.HandleFunc("POST /api/promotions/validate", h.Promotion.Validate)

	mux.HandleFunc("POST /api/checkout", h.Order.Checkout)
	mux.Handle("GET /api/orders", middleware.RequireAuth(http.HandlerFunc(h.Order.ListMine)))
	mux.HandleFunc("GET /api/orders/{id}", h.Order.GetByID)

	mux.Handle("GET /api/me", middleware.RequireAuth(http.HandlerFunc(h.Customer.Me)))
	mux.Handle("PUT /api/me", middleware.RequireAuth(http.HandlerFunc(h.Customer.UpdateMe)))

	// Provider callbacks authenticate by signature, not by caller identity
	mux.HandleFunc("POST /api/payments/webhook", h.Payment.Webhook)

	// Admin
	requireAdmin := middleware.RequireAdmin(cfg.APIKey, logger)
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireAdmin(fn))
	}

	admin("GET /api/admin/stats", h.Admin.Stats)
	admin("GET /api/admin/orders", h.Order.List)
	admin("PATCH /api/admin/orders/{id}/status", h.Order.UpdateStatus)
	admin("GET /api/admin/customers", h.Customer.List)
	admin("POST /api/admin/menu", h.Menu.Create)
	admin("PUT /api/admin/menu/{id}", h.Menu.Update)
	admin("DELETE /api/admin/menu/{id}", h.Menu.Delete)
	admin("GET /api/admin/promotions", h.Promotion.List)
	admin("POST /api/admin/promotions", h.Promotion.Create)
	admin("PATCH /api/admin/promotions/{code}", h.Promotion.SetActive)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> Tracing -> CORS -> Authenticate
	var handler http.Handler = mux
	handler = middleware.Authenticate(cfg.Verifier, logger)(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = middleware.Tracing(cfg.ServiceName)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
