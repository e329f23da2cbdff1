package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is how a promotion reduces the order total.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// Promotion is a discount code. Codes are unique ignoring case.
type Promotion struct {
	Code          string           `json:"code" db:"code"`
	DiscountType  DiscountType     `json:"discountType" db:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discountValue" db:"discount_value"`
	MinimumOrder  *decimal.Decimal `json:"minimumOrder,omitempty" db:"minimum_order"`
	Active        bool             `json:"active" db:"active"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}

// PromotionResult is the verdict of validating a code against an order total.
type PromotionResult struct {
	Code           string          `json:"code"`
	Valid          bool            `json:"valid"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Reason         string          `json:"reason,omitempty"`
}

// ValidatePromotionRequest is the payload for the validate endpoint.
type ValidatePromotionRequest struct {
	Code       string          `json:"code"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

// UpdatePromotionRequest toggles a promotion.
type UpdatePromotionRequest struct {
	Active *bool `json:"active"`
}
