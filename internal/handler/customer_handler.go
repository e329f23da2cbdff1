package handler

import (
	"net/http"

	"dinekart/internal/auth"
	"dinekart/internal/model"
	"dinekart/internal/service"

	"github.com/rs/zerolog"
)

// CustomerHandler handles profile HTTP requests.
type CustomerHandler struct {
	service service.CustomerService
	logger  zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger.With().Str("handler", "customer").Logger(),
	}
}

// Me handles GET /api/me requests.
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Profile(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// UpdateMe handles PUT /api/me requests.
func (h *CustomerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	c, err := h.service.UpdateProfile(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// List handles GET /api/admin/customers requests.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	customers, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}
