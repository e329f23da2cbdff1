package handler

import (
	"net/http"

	"dinekart/internal/auth"
	"dinekart/internal/cart"
	"dinekart/internal/model"
	"dinekart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	carts   service.CartService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, carts service.CartService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		carts:   carts,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	key, err := resolveCartKey(r.Context(), w, r, h.carts, false)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if key == "" {
		handleError(w, r, model.ErrEmptyCart, h.logger)
		return
	}

	resp, err := h.service.Checkout(r.Context(), auth.FromContext(r.Context()), key, &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetByID handles GET /api/orders/{id} requests. Orders are visible to their
// customer, to the guest session that placed them and to admins.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid order ID format", h.logger)
		return
	}

	o, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if !canView(r, o) {
		// Not found rather than forbidden, so order ids cannot be probed.
		handleError(w, r, model.ErrOrderNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func canView(r *http.Request, o *model.Order) bool {
	identity := auth.FromContext(r.Context())
	if identity.IsAdmin() {
		return true
	}
	if identity != nil && o.CustomerID != nil && *o.CustomerID == identity.Subject {
		return true
	}

	session, err := guestSession(r)
	if err != nil || session == "" {
		return false
	}
	return o.CartSession != nil && *o.CartSession == cart.SessionKey(session)
}

// statusFilter reads the optional status query parameter.
func statusFilter(r *http.Request) (*model.OrderStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status := model.OrderStatus(raw)
	if !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown order status")
	}
	return &status, nil
}

// ListMine handles GET /api/orders requests for the signed-in customer.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if identity == nil {
		handleError(w, r, model.ErrUnauthorised, h.logger)
		return
	}
	h.list(w, r, &identity.Subject)
}

// List handles GET /api/admin/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, nil)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, customerID *string) {
	limit, offset, err := pagination(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	status, err := statusFilter(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), model.OrderFilter{
		CustomerID: customerID,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid order ID format", h.logger)
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, o)
}
