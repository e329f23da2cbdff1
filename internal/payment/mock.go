package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
)

// MockWebhook is the body accepted by MockProvider.ParseWebhook.
type MockWebhook struct {
	Type      string `json:"type"` // "paid" or "failed"
	SessionID string `json:"sessionId"`
	OrderID   string `json:"orderId"`
}

// MockProvider is a local stand-in for a hosted checkout. Session ids are derived
// from the order id and webhooks are unsigned JSON.
type MockProvider struct {
	checkoutURL string
	logger      zerolog.Logger
}

// NewMockProvider creates a mock provider redirecting to checkoutURL.
func NewMockProvider(checkoutURL string, logger zerolog.Logger) *MockProvider {
	return &MockProvider{
		checkoutURL: checkoutURL,
		logger:      logger.With().Str("component", "mock-payment").Logger(),
	}
}

func (p *MockProvider) Name() string {
	return ProviderMock
}

// MockSessionID returns the session id MockProvider assigns to an order.
func MockSessionID(orderID string) string {
	return "mock_" + orderID
}

func (p *MockProvider) CreateSession(ctx context.Context, order *model.Order) (*Session, error) {
	sessionID := MockSessionID(order.ID.String())

	redirect, err := url.Parse(p.checkoutURL)
	if err != nil {
		return nil, &model.RemoteCallError{Op: "create checkout session", Err: err}
	}
	q := redirect.Query()
	q.Set("session_id", sessionID)
	q.Set("order_id", order.ID.String())
	q.Set("amount", order.TotalAmount.StringFixed(2))
	redirect.RawQuery = q.Encode()

	p.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", sessionID).
		Str("amount", order.TotalAmount.StringFixed(2)).
		Msg("mock checkout session created")

	return &Session{ID: sessionID, RedirectURL: redirect.String()}, nil
}

func (p *MockProvider) ParseWebhook(payload []byte, header http.Header) (*Event, error) {
	var body MockWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	if body.SessionID == "" && body.OrderID == "" {
		return nil, fmt.Errorf("%w: session or order id required", ErrInvalidWebhook)
	}

	event := &Event{Kind: EventIgnored, Type: body.Type, SessionID: body.SessionID, OrderID: body.OrderID}
	switch EventKind(body.Type) {
	case EventPaid:
		event.Kind = EventPaid
	case EventFailed:
		event.Kind = EventFailed
	}
	return event, nil
}
