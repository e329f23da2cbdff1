// Package payment opens hosted checkout sessions and interprets payment webhooks.
package payment

import (
	"context"
	"errors"
	"net/http"

	"dinekart/internal/model"

	"github.com/shopspring/decimal"
)

// Provider names accepted by PAYMENT_PROVIDER.
const (
	ProviderStripe = "stripe"
	ProviderMock   = "mock"
)

// ErrInvalidWebhook is returned when a webhook payload or its signature cannot be trusted.
var ErrInvalidWebhook = errors.New("invalid webhook payload")

// Session is a hosted checkout session the customer is redirected to.
type Session struct {
	ID          string
	RedirectURL string
}

// EventKind classifies a webhook event.
type EventKind string

const (
	EventPaid    EventKind = "paid"
	EventFailed  EventKind = "failed"
	EventIgnored EventKind = "ignored"
)

// Event is a provider webhook reduced to what order confirmation needs.
type Event struct {
	Kind      EventKind
	Type      string
	SessionID string
	OrderID   string
}

// Provider creates payment sessions and parses their webhooks.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// CreateSession opens a checkout session charging order.TotalAmount.
	CreateSession(ctx context.Context, order *model.Order) (*Session, error)

	// ParseWebhook verifies and decodes a webhook request body.
	ParseWebhook(payload []byte, header http.Header) (*Event, error)
}

// URLs are where the hosted page sends the customer afterwards.
type URLs struct {
	Success string
	Cancel  string
}

// toMinorUnits converts an amount to cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
