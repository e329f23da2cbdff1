// Package promotion validates discount codes against an order total.
package promotion

import (
	"context"
	"strings"
	"time"

	"dinekart/internal/model"

	"github.com/shopspring/decimal"
)

// Rejection reasons reported back to the customer.
const (
	ReasonInvalidCode   = "invalid code"
	ReasonInactive      = "inactive"
	ReasonExpired       = "expired"
	ReasonMinimumNotMet = "minimum order not met"
	ReasonUnavailable   = "promotions unavailable"
)

// Validator checks promotion codes.
type Validator interface {
	// Validate returns the verdict for code against orderTotal. A rejected code is
	// a verdict, not an error; errors mean the catalog could not be fetched.
	Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (model.PromotionResult, error)

	// Invalidate forces the next Validate to reload the catalog.
	Invalidate()

	// Close releases resources held by the validator.
	Close() error
}

// Catalog is a set of promotions keyed by code, ignoring case.
type Catalog interface {
	// Lookup finds a promotion by code, ignoring case.
	Lookup(code string) (model.Promotion, bool)

	// Size returns the number of promotions in the catalog.
	Size() int
}

// Source fetches the full promotion catalog.
type Source interface {
	Load(ctx context.Context) ([]model.Promotion, error)
}

// mapCatalog implements Catalog using a map for O(1) lookups.
type mapCatalog struct {
	promotions map[string]model.Promotion
}

// NewCatalog indexes promotions by lower-cased code. Later duplicates win.
func NewCatalog(promotions []model.Promotion) Catalog {
	c := &mapCatalog{promotions: make(map[string]model.Promotion, len(promotions))}
	for _, p := range promotions {
		c.promotions[normalise(p.Code)] = p
	}
	return c
}

func (c *mapCatalog) Lookup(code string) (model.Promotion, bool) {
	p, ok := c.promotions[normalise(code)]
	return p, ok
}

func (c *mapCatalog) Size() int {
	return len(c.promotions)
}

func normalise(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Evaluate applies the promotion rules. It is pure given the catalog and the clock.
func Evaluate(catalog Catalog, code string, orderTotal decimal.Decimal, now time.Time) model.PromotionResult {
	result := model.PromotionResult{Code: strings.TrimSpace(code), DiscountAmount: decimal.Zero}

	p, ok := catalog.Lookup(code)
	if !ok {
		result.Reason = ReasonInvalidCode
		return result
	}
	result.Code = p.Code

	if !p.Active {
		result.Reason = ReasonInactive
		return result
	}

	if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
		result.Reason = ReasonExpired
		return result
	}

	if p.MinimumOrder != nil && orderTotal.LessThan(*p.MinimumOrder) {
		result.Reason = ReasonMinimumNotMet
		return result
	}

	result.Valid = true
	result.DiscountAmount = Discount(p, orderTotal)
	return result
}

// Discount computes the amount p takes off orderTotal, clamped to [0, orderTotal].
func Discount(p model.Promotion, orderTotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch p.DiscountType {
	case model.DiscountPercentage:
		amount = orderTotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case model.DiscountFixed:
		amount = p.DiscountValue
	default:
		amount = decimal.Zero
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	if orderTotal.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(orderTotal) {
		return orderTotal
	}
	return amount
}
