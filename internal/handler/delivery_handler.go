package handler

import (
	"net/http"

	"dinekart/internal/delivery"
)

// SlotSource lists bookable delivery slots.
type SlotSource interface {
	Available() delivery.Slots
}

// DeliveryHandler serves the delivery calendar.
type DeliveryHandler struct {
	slots SlotSource
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(slots SlotSource) *DeliveryHandler {
	return &DeliveryHandler{slots: slots}
}

// Slots handles GET /api/delivery/slots requests.
func (h *DeliveryHandler) Slots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.slots.Available())
}
