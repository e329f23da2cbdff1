package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationOrderConfirmed = "order_confirmed"
	NotificationOrderStatus    = "order_status"
	NotificationNewOrder       = "new_order"
)

// Notification is a message shown to a customer or to the admins.
type Notification struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	RecipientID string            `json:"recipientId" db:"recipient_id"`
	Type        string            `json:"type" db:"type"`
	Title       string            `json:"title" db:"title"`
	Message     string            `json:"message" db:"message"`
	Metadata    map[string]string `json:"metadata,omitempty" db:"metadata"`
	Read        bool              `json:"read" db:"read"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
}
