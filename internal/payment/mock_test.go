package payment

import (
	"context"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_CreateSession(t *testing.T) {
	p := NewMockProvider("http://localhost:3000/mock-checkout", zerolog.Nop())
	order := testOrder("0")
	order.TotalAmount = decimal.RequireFromString("29.99")

	session, err := p.CreateSession(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, MockSessionID(order.ID.String()), session.ID)

	redirect, err := url.Parse(session.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "/mock-checkout", redirect.Path)
	assert.Equal(t, session.ID, redirect.Query().Get("session_id"))
	assert.Equal(t, "29.99", redirect.Query().Get("amount"))

	again, err := p.CreateSession(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)
}

func TestMockProvider_ParseWebhook(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind EventKind
		wantErr  bool
	}{
		{name: "paid", body: `{"type":"paid","sessionId":"mock_1"}`, wantKind: EventPaid},
		{name: "failed", body: `{"type":"failed","orderId":"1"}`, wantKind: EventFailed},
		{name: "other", body: `{"type":"refunded","sessionId":"mock_1"}`, wantKind: EventIgnored},
		{name: "no ids", body: `{"type":"paid"}`, wantErr: true},
		{name: "not json", body: `paid`, wantErr: true},
	}

	p := NewMockProvider("http://localhost", zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := p.ParseWebhook([]byte(tt.body), nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWebhook)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, event.Kind)
		})
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Provider: ProviderMock}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, p.Name())

	p, err = NewProvider(Config{Provider: ProviderStripe, Stripe: StripeConfig{SecretKey: "sk_test"}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ProviderStripe, p.Name())

	_, err = NewProvider(Config{Provider: "paypal"}, zerolog.Nop())
	assert.Error(t, err)
}
