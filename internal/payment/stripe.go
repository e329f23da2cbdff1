package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Stripe webhook event types handled by ParseWebhook.
const (
	stripeSessionCompleted          = "checkout.session.completed"
	stripeSessionAsyncPaymentOK     = "checkout.session.async_payment_succeeded"
	stripeSessionAsyncPaymentFailed = "checkout.session.async_payment_failed"
	stripeSessionExpired            = "checkout.session.expired"
)

// StripeConfig holds the Stripe account settings.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// APIURL overrides the Stripe API base URL. Empty uses api.stripe.com.
	APIURL   string
	Currency string
	URLs     URLs
}

// StripeProvider opens Stripe Checkout sessions.
type StripeProvider struct {
	api    *client.API
	cfg    StripeConfig
	logger zerolog.Logger
}

// NewStripeProvider creates a Stripe provider. Requests are traced and never retried.
func NewStripeProvider(cfg StripeConfig, logger zerolog.Logger) *StripeProvider {
	logger = logger.With().Str("component", "stripe").Logger()

	backendCfg := &stripe.BackendConfig{
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripeLogger{logger: logger},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})

	return &StripeProvider{api: api, cfg: cfg, logger: logger}
}

func (p *StripeProvider) Name() string {
	return ProviderStripe
}

// CreateSession opens a Checkout session with one line per order item and a delivery
// fee line. A discount is applied through a single-use coupon so Stripe collects
// exactly order.TotalAmount.
func (p *StripeProvider) CreateSession(ctx context.Context, order *model.Order) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(p.cfg.URLs.Success),
		CancelURL:         stripe.String(p.cfg.URLs.Cancel),
		ClientReferenceID: stripe.String(order.ID.String()),
	}
	params.Context = ctx
	if order.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(order.CustomerEmail)
	}
	params.AddMetadata("order_id", order.ID.String())

	for _, item := range order.Items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.ImageURL != "" {
			product.Images = []*string{stripe.String(item.ImageURL)}
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(p.cfg.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(toMinorUnits(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	if order.DeliveryFee.IsPositive() {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Delivery fee"),
				},
				UnitAmount: stripe.Int64(toMinorUnits(order.DeliveryFee)),
			},
			Quantity: stripe.Int64(1),
		})
	}

	if order.Discount.IsPositive() {
		couponID, err := p.createCoupon(ctx, order)
		if err != nil {
			return nil, err
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{{Coupon: stripe.String(couponID)}}
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		p.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create checkout session")
		return nil, &model.RemoteCallError{Op: "create checkout session", Err: err}
	}

	p.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", s.ID).
		Msg("checkout session created")

	return &Session{ID: s.ID, RedirectURL: s.URL}, nil
}

func (p *StripeProvider) createCoupon(ctx context.Context, order *model.Order) (string, error) {
	name := "Discount"
	if order.PromotionCode != nil {
		name = *order.PromotionCode
	}

	params := &stripe.CouponParams{
		AmountOff:      stripe.Int64(toMinorUnits(order.Discount)),
		Currency:       stripe.String(p.cfg.Currency),
		Duration:       stripe.String(string(stripe.CouponDurationOnce)),
		MaxRedemptions: stripe.Int64(1),
		Name:           stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata("order_id", order.ID.String())

	c, err := p.api.Coupons.New(params)
	if err != nil {
		p.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create discount coupon")
		return "", &model.RemoteCallError{Op: "create discount coupon", Err: err}
	}
	return c.ID, nil
}

// ParseWebhook verifies the Stripe-Signature header and maps checkout session events.
func (p *StripeProvider) ParseWebhook(payload []byte, header http.Header) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, header.Get("Stripe-Signature"), p.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	event := &Event{Kind: EventIgnored, Type: string(evt.Type)}

	switch event.Type {
	case stripeSessionCompleted, stripeSessionAsyncPaymentOK, stripeSessionAsyncPaymentFailed, stripeSessionExpired:
	default:
		return event, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	event.SessionID = session.ID
	event.OrderID = session.ClientReferenceID
	if event.OrderID == "" {
		event.OrderID = session.Metadata["order_id"]
	}

	switch event.Type {
	case stripeSessionCompleted:
		// Delayed payment methods complete the session before the money arrives.
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			session.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			event.Kind = EventPaid
		}
	case stripeSessionAsyncPaymentOK:
		event.Kind = EventPaid
	case stripeSessionAsyncPaymentFailed, stripeSessionExpired:
		event.Kind = EventFailed
	}

	return event, nil
}

// stripeLogger routes stripe-go's internal logging through zerolog.
type stripeLogger struct {
	logger zerolog.Logger
}

func (l *stripeLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func (l *stripeLogger) Infof(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func (l *stripeLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *stripeLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}
