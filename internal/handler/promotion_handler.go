package handler

import (
	"net/http"

	"dinekart/internal/model"
	"dinekart/internal/service"

	"github.com/rs/zerolog"
)

// PromotionHandler handles promotion-related HTTP requests.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("handler", "promotion").Logger(),
	}
}

// Validate handles POST /api/promotions/validate requests. A rejected code is a
// 200 response with valid set to false.
func (h *PromotionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidatePromotionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// List handles GET /api/admin/promotions requests.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotions)
}

// Create handles POST /api/admin/promotions requests.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Promotion
	if err := decodeJSON(w, r, &p); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), &p)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// SetActive handles PATCH /api/admin/promotions/{code} requests.
func (h *PromotionHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePromotionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if req.Active == nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "active is required", h.logger)
		return
	}

	p, err := h.service.SetActive(r.Context(), r.PathValue("code"), *req.Active)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
