package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeInvalidRequest          = "INVALID_REQUEST"
	ErrCodeEmptyCart               = "EMPTY_CART"
	ErrCodeMissingDeliverySlot     = "MISSING_DELIVERY_SLOT"
	ErrCodeInvalidDeliverySlot     = "INVALID_DELIVERY_SLOT"
	ErrCodeMissingCustomerInfo     = "MISSING_CUSTOMER_INFO"
	ErrCodeMenuItemNotFound        = "MENU_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodePromotionNotFound       = "PROMOTION_NOT_FOUND"
	ErrCodePromotionExists         = "PROMOTION_EXISTS"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodePaymentSessionFailed    = "PAYMENT_SESSION_FAILED"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrMissingDeliverySlot     = NewDomainError(ErrCodeMissingDeliverySlot, "Delivery date and time are required")
	ErrInvalidDeliverySlot     = NewDomainError(ErrCodeInvalidDeliverySlot, "Delivery slot is not available")
	ErrMissingCustomerInfo     = NewDomainError(ErrCodeMissingCustomerInfo, "Email, first name, last name, phone and address are required")
	ErrMenuItemNotFound        = NewDomainError(ErrCodeMenuItemNotFound, "Menu item not found")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrPromotionNotFound       = NewDomainError(ErrCodePromotionNotFound, "Promotion not found")
	ErrPromotionExists         = NewDomainError(ErrCodePromotionExists, "A promotion with this code already exists")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be a whole number no greater than 99")
	ErrInvalidStatusTransition = NewDomainError(ErrCodeInvalidStatusTransition, "Order status change is not allowed")
	ErrPaymentSessionFailed    = NewDomainError(ErrCodePaymentSessionFailed, "Could not start payment, please try again")
	ErrUnauthorised            = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrForbidden               = NewDomainError(ErrCodeForbidden, "Insufficient permissions")
)

// RemoteCallError reports a failed call to the data store or the payment provider.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
