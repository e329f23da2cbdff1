package handler

import (
	"errors"
	"io"
	"net/http"

	"dinekart/internal/model"
	"dinekart/internal/payment"
	"dinekart/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBytes caps webhook payloads; signatures cover the raw body.
const maxWebhookBytes = 64 << 10

// WebhookParser verifies payment provider webhooks.
type WebhookParser interface {
	ParseWebhook(payload []byte, header http.Header) (*payment.Event, error)
}

// PaymentHandler receives payment provider callbacks.
type PaymentHandler struct {
	parser  WebhookParser
	service service.OrderService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(parser WebhookParser, service service.OrderService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		parser:  parser,
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Webhook handles POST /api/payments/webhook requests. Events for unknown orders are
// acknowledged so the provider stops redelivering them; other failures return 500
// so it retries.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, model.ErrCodeInvalidRequest, "Webhook payload too large", h.logger)
		return
	}

	event, err := h.parser.ParseWebhook(payload, r.Header)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidWebhook) {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid webhook", h.logger)
			return
		}
		handleError(w, r, err, h.logger)
		return
	}

	if err := h.service.HandlePaymentEvent(r.Context(), event); err != nil {
		if !errors.Is(err, model.ErrOrderNotFound) {
			handleError(w, r, err, h.logger)
			return
		}
		h.logger.Warn().Str("session_id", event.SessionID).Msg("acknowledging webhook for unknown order")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
