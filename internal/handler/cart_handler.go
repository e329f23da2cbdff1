package handler

import (
	"context"
	"net/http"
	"strings"

	"dinekart/internal/auth"
	"dinekart/internal/cart"
	"dinekart/internal/middleware"
	"dinekart/internal/model"
	"dinekart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

var errInvalidCartSession = model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid cart session")

// guestSession returns the caller's cart session header, if well formed.
func guestSession(r *http.Request) (string, error) {
	session := strings.TrimSpace(r.Header.Get(middleware.HeaderCartSession))
	if session == "" {
		return "", nil
	}
	if _, err := uuid.Parse(session); err != nil {
		return "", errInvalidCartSession
	}
	return session, nil
}

// resolveCartKey picks the cart a request operates on. Signed-in callers use their
// own cart, adopting any guest cart named by the session header. Guests use their
// session cart; when issue is set and they have none, a new session is issued in the
// response header. An empty key means the guest has no cart yet.
func resolveCartKey(ctx context.Context, w http.ResponseWriter, r *http.Request, carts service.CartService, issue bool) (string, error) {
	session, err := guestSession(r)
	if err != nil {
		return "", err
	}

	if identity := auth.FromContext(ctx); identity != nil {
		key := cart.UserKey(identity.Subject)
		if session != "" {
			if _, err := carts.Adopt(ctx, cart.SessionKey(session), key); err != nil {
				return "", err
			}
		}
		return key, nil
	}

	if session != "" {
		return cart.SessionKey(session), nil
	}
	if !issue {
		return "", nil
	}

	session = uuid.NewString()
	w.Header().Set(middleware.HeaderCartSession, session)
	return cart.SessionKey(session), nil
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := resolveCartKey(r.Context(), w, r, h.service, false)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if key == "" {
		writeJSON(w, http.StatusOK, cart.New().Response())
		return
	}

	resp, err := h.service.Get(r.Context(), key)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if strings.TrimSpace(req.MenuItemID) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "menuItemId is required", h.logger)
		return
	}

	key, err := resolveCartKey(r.Context(), w, r, h.service, true)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.AddItem(r.Context(), key, strings.TrimSpace(req.MenuItemID))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateItem handles PATCH /api/cart/items/{id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		// A fractional or non-numeric quantity fails to decode into *int.
		handleError(w, r, model.ErrInvalidQuantity, h.logger)
		return
	}
	if req.Quantity == nil {
		handleError(w, r, model.ErrInvalidQuantity, h.logger)
		return
	}

	key, err := resolveCartKey(r.Context(), w, r, h.service, true)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.UpdateQuantity(r.Context(), key, r.PathValue("id"), *req.Quantity)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key, err := resolveCartKey(r.Context(), w, r, h.service, true)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.RemoveItem(r.Context(), key, r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	key, err := resolveCartKey(r.Context(), w, r, h.service, false)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if key != "" {
		if err := h.service.Clear(r.Context(), key); err != nil {
			handleError(w, r, err, h.logger)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
