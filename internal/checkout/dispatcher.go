// Package checkout hands assembled orders to the payment provider.
package checkout

import (
	"context"
	"fmt"
	"net/http"

	"dinekart/internal/model"
	"dinekart/internal/payment"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dinekart/checkout")

// Dispatcher opens payment sessions for orders. It makes exactly one attempt per
// order; callers decide whether to try again.
type Dispatcher struct {
	provider payment.Provider
	logger   zerolog.Logger
}

// NewDispatcher creates a checkout dispatcher.
func NewDispatcher(provider payment.Provider, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		logger:   logger.With().Str("component", "checkout-dispatcher").Str("provider", provider.Name()).Logger(),
	}
}

// Dispatch sends order to the payment provider and returns the session to redirect to.
// A provider failure is returned as ErrPaymentSessionFailed wrapping the cause.
func (d *Dispatcher) Dispatch(ctx context.Context, order *model.Order) (*payment.Session, error) {
	ctx, span := tracer.Start(ctx, "checkout.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.total", order.TotalAmount.StringFixed(2)),
		attribute.Int("order.items", len(order.Items)),
	)

	if len(order.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	session, err := d.provider.CreateSession(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment session failed")
		d.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("payment session failed")
		return nil, fmt.Errorf("%w: %w", model.ErrPaymentSessionFailed, err)
	}
	if session == nil || session.ID == "" || session.RedirectURL == "" {
		err := fmt.Errorf("%w: provider returned an incomplete session", model.ErrPaymentSessionFailed)
		span.SetStatus(codes.Error, "incomplete session")
		d.logger.Error().Str("order_id", order.ID.String()).Msg("payment provider returned an incomplete session")
		return nil, err
	}

	span.SetAttributes(attribute.String("payment.session_id", session.ID))
	d.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", session.ID).
		Msg("order dispatched to payment")

	return session, nil
}

// ParseWebhook verifies a provider webhook.
func (d *Dispatcher) ParseWebhook(payload []byte, header http.Header) (*payment.Event, error) {
	event, err := d.provider.ParseWebhook(payload, header)
	if err != nil {
		d.logger.Warn().Err(err).Msg("rejected payment webhook")
		return nil, err
	}
	d.logger.Debug().
		Str("event_type", event.Type).
		Str("event_kind", string(event.Kind)).
		Str("session_id", event.SessionID).
		Str("order_id", event.OrderID).
		Msg("payment webhook received")
	return event, nil
}
