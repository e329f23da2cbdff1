// Package order turns a cart snapshot into a priced order and guards its status lifecycle.
package order

import (
	"context"
	"strings"
	"time"

	"dinekart/internal/cart"
	"dinekart/internal/model"
	"dinekart/internal/promotion"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Pricing holds the delivery fee rule.
type Pricing struct {
	// FreeDeliveryThreshold is the subtotal above which delivery is free.
	FreeDeliveryThreshold decimal.Decimal
	// DeliveryFee is charged when the subtotal does not exceed the threshold.
	DeliveryFee decimal.Decimal
}

// DefaultPricing charges 4.99 up to and including a 50.00 subtotal.
func DefaultPricing() Pricing {
	return Pricing{
		FreeDeliveryThreshold: decimal.NewFromInt(50),
		DeliveryFee:           decimal.RequireFromString("4.99"),
	}
}

// DeliveryFeeFor returns the fee charged for subtotal.
func (p Pricing) DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.DeliveryFee
}

// Subtotal sums price × quantity over items, rounded to cents.
func Subtotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// SlotValidator checks a requested delivery slot.
type SlotValidator interface {
	ValidateSlot(slot model.DeliverySlot) error
}

// Input is everything needed to build an order.
type Input struct {
	Items               []model.CartItem
	Slot                model.DeliverySlot
	Customer            model.CustomerInfo
	CustomerID          *string
	PromotionCode       *string
	SpecialInstructions *string
	CartSession         *string
}

// Result is an assembled order and the verdict on its promotion code, if one was given.
type Result struct {
	Order     *model.Order
	Promotion *model.PromotionResult
}

// Assembler validates checkout input and computes order totals.
type Assembler struct {
	pricing    Pricing
	promotions promotion.Validator
	slots      SlotValidator
	now        func() time.Time
	logger     zerolog.Logger
}

// NewAssembler creates an order assembler. A nil clock uses time.Now.
func NewAssembler(
	pricing Pricing,
	promotions promotion.Validator,
	slots SlotValidator,
	now func() time.Time,
	logger zerolog.Logger,
) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{
		pricing:    pricing,
		promotions: promotions,
		slots:      slots,
		now:        now,
		logger:     logger.With().Str("component", "order-assembler").Logger(),
	}
}

// Assemble validates in and builds a pending order. Validation stops at the first
// failure: empty cart or an out-of-range quantity, then the delivery slot, then guest
// contact details.
// A rejected promotion code does not fail the order; its verdict is returned in Result.
func (a *Assembler) Assemble(ctx context.Context, in Input) (*Result, error) {
	if len(in.Items) == 0 {
		return nil, model.ErrEmptyCart
	}
	for _, item := range in.Items {
		if item.Quantity < 1 || item.Quantity > cart.MaxQuantity {
			return nil, model.ErrInvalidQuantity
		}
	}

	if err := a.slots.ValidateSlot(in.Slot); err != nil {
		return nil, err
	}

	if in.CustomerID == nil && !complete(in.Customer) {
		return nil, model.ErrMissingCustomerInfo
	}

	subtotal := Subtotal(in.Items)
	fee := a.pricing.DeliveryFeeFor(subtotal)

	discount := decimal.Zero
	var verdict *model.PromotionResult
	var appliedCode *string
	if code := trimmed(in.PromotionCode); code != nil {
		result := a.validatePromotion(ctx, *code, subtotal)
		verdict = &result
		if result.Valid {
			discount = result.DiscountAmount
			appliedCode = &result.Code
		}
	}

	total := subtotal.Add(fee).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	now := a.now().UTC()
	order := &model.Order{
		ID:                    uuid.New(),
		CustomerID:            in.CustomerID,
		CustomerEmail:         strings.TrimSpace(in.Customer.Email),
		CustomerName:          strings.TrimSpace(in.Customer.FullName()),
		CustomerPhone:         strings.TrimSpace(in.Customer.Phone),
		Subtotal:              subtotal,
		DeliveryFee:           fee,
		Discount:              discount,
		TotalAmount:           total,
		PromotionCode:         appliedCode,
		DeliveryAddress:       strings.TrimSpace(in.Customer.Address),
		RequestedDeliveryDate: in.Slot.Date,
		EstimatedDeliveryTime: in.Slot.Time,
		SpecialInstructions:   trimmed(in.SpecialInstructions),
		Status:                model.OrderStatusPending,
		PaymentStatus:         model.PaymentStatusPending,
		CartSession:           in.CartSession,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	order.Items = make([]model.OrderItem, len(in.Items))
	for i, item := range in.Items {
		order.Items[i] = model.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			ImageURL:   item.Image,
			Quantity:   item.Quantity,
		}
	}

	a.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("subtotal", subtotal.StringFixed(2)).
		Str("delivery_fee", fee.StringFixed(2)).
		Str("discount", discount.StringFixed(2)).
		Str("total", total.StringFixed(2)).
		Msg("order assembled")

	return &Result{Order: order, Promotion: verdict}, nil
}

// validatePromotion checks code against the pre-discount subtotal. A catalog failure is
// reported as an unavailable promotion rather than failing checkout.
func (a *Assembler) validatePromotion(ctx context.Context, code string, subtotal decimal.Decimal) model.PromotionResult {
	unavailable := model.PromotionResult{Code: code, DiscountAmount: decimal.Zero, Reason: promotion.ReasonUnavailable}
	if a.promotions == nil {
		return unavailable
	}

	result, err := a.promotions.Validate(ctx, code, subtotal)
	if err != nil {
		a.logger.Warn().Err(err).Str("promo_code", code).Msg("promotion catalog unavailable, continuing without discount")
		return unavailable
	}
	if !result.Valid {
		a.logger.Info().Str("promo_code", code).Str("reason", result.Reason).Msg("promotion rejected")
	}
	return result
}

func complete(c model.CustomerInfo) bool {
	for _, field := range []string{c.Email, c.FirstName, c.LastName, c.Phone, c.Address} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
