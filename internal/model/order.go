package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// DeliverySlot is a requested delivery date and evening time mark.
type DeliverySlot struct {
	Date Date   `json:"date"`
	Time string `json:"time"`
}

// CustomerInfo is the contact and delivery data given at checkout.
type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// FullName joins first and last name.
func (c CustomerInfo) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Order represents a customer order.
type Order struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	CustomerID            *string         `json:"customerId,omitempty" db:"customer_id"`
	CustomerEmail         string          `json:"customerEmail" db:"customer_email"`
	CustomerName          string          `json:"customerName" db:"customer_name"`
	CustomerPhone         string          `json:"customerPhone" db:"customer_phone"`
	Items                 []OrderItem     `json:"items"`
	Subtotal              decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee" db:"delivery_fee"`
	Discount              decimal.Decimal `json:"discount" db:"discount"`
	TotalAmount           decimal.Decimal `json:"totalAmount" db:"total_amount"`
	PromotionCode         *string         `json:"promotionCode,omitempty" db:"promotion_code"`
	DeliveryAddress       string          `json:"deliveryAddress" db:"delivery_address"`
	RequestedDeliveryDate Date            `json:"requestedDeliveryDate" db:"requested_delivery_date"`
	EstimatedDeliveryTime string          `json:"estimatedDeliveryTime" db:"estimated_delivery_time"`
	SpecialInstructions   *string         `json:"specialInstructions,omitempty" db:"special_instructions"`
	Status                OrderStatus     `json:"status" db:"status"`
	PaymentStatus         PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentSessionID      *string         `json:"paymentSessionId,omitempty" db:"payment_session_id"`
	CartSession           *string         `json:"-" db:"cart_session"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`
	NextStatuses          []OrderStatus   `json:"nextStatuses,omitempty" db:"-"`
}

// OrderItem is the snapshot of a cart line stored with an order.
type OrderItem struct {
	ID         uuid.UUID       `json:"-" db:"id"`
	OrderID    uuid.UUID       `json:"-" db:"order_id"`
	MenuItemID string          `json:"menuItemId" db:"menu_item_id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	ImageURL   string          `json:"imageUrl" db:"image_url"`
	Quantity   int             `json:"quantity" db:"quantity"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	CustomerID *string
	Status     *OrderStatus
	Limit      int
	Offset     int
}

// CheckoutRequest represents the request payload for placing an order.
type CheckoutRequest struct {
	DeliveryDate        string       `json:"deliveryDate"`
	DeliveryTime        string       `json:"deliveryTime"`
	Customer            CustomerInfo `json:"customer"`
	PromotionCode       *string      `json:"promotionCode,omitempty"`
	SpecialInstructions *string      `json:"specialInstructions,omitempty"`
}

// CheckoutResponse represents the response payload for a placed order.
type CheckoutResponse struct {
	Order       *Order           `json:"order"`
	SessionID   string           `json:"sessionId"`
	RedirectURL string           `json:"redirectUrl"`
	Promotion   *PromotionResult `json:"promotion,omitempty"`
}

// UpdateOrderStatusRequest is the admin payload for moving an order along.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
