// Package notify delivers customer and staff notifications.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dinekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// AdminRecipient is the recipient id used for notifications meant for all admins.
const AdminRecipient = "admins"

// Dispatcher delivers a notification.
type Dispatcher interface {
	Notify(ctx context.Context, n model.Notification) error
}

// postgresDispatcher stores notifications in the notifications table, where the
// storefront polls them.
type postgresDispatcher struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresDispatcher creates a dispatcher writing to PostgreSQL.
func NewPostgresDispatcher(pool *pgxpool.Pool, logger zerolog.Logger) Dispatcher {
	return &postgresDispatcher{
		pool:   pool,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

func (d *postgresDispatcher) Notify(ctx context.Context, n model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, metadata, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := d.pool.Exec(ctx, query, n.ID, n.RecipientID, n.Type, n.Title, n.Message, metadata, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	d.logger.Debug().
		Str("notification_id", n.ID.String()).
		Str("recipient_id", n.RecipientID).
		Str("type", n.Type).
		Msg("notification stored")
	return nil
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(ctx context.Context, n model.Notification) error {
	return nil
}

// Async sends notifications in the background so callers never wait on, or fail
// because of, delivery.
type Async struct {
	next    Dispatcher
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewAsync wraps next. Each delivery gets its own timeout.
func NewAsync(next Dispatcher, timeout time.Duration, logger zerolog.Logger) *Async {
	return &Async{
		next:    next,
		timeout: timeout,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Notify schedules delivery and returns immediately. ctx only carries values; its
// cancellation does not stop delivery.
func (a *Async) Notify(ctx context.Context, n model.Notification) error {
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		if err := a.next.Notify(ctx, n); err != nil {
			a.logger.Warn().
				Err(err).
				Str("recipient_id", n.RecipientID).
				Str("type", n.Type).
				Msg("failed to deliver notification")
		}
	}()
	return nil
}

// Wait blocks until all scheduled deliveries have finished.
func (a *Async) Wait() {
	a.wg.Wait()
}

// OrderConfirmed tells the customer their payment went through.
func OrderConfirmed(recipient string, order *model.Order) model.Notification {
	return model.Notification{
		RecipientID: recipient,
		Type:        model.NotificationOrderConfirmed,
		Title:       "Order confirmed",
		Message: fmt.Sprintf("Thanks %s! Your order of %s is confirmed for %s at %s.",
			order.CustomerName, order.TotalAmount.StringFixed(2),
			order.RequestedDeliveryDate.String(), order.EstimatedDeliveryTime),
		Metadata: map[string]string{"orderId": order.ID.String()},
	}
}

// NewOrder tells the admins a paid order is waiting.
func NewOrder(order *model.Order) model.Notification {
	return model.Notification{
		RecipientID: AdminRecipient,
		Type:        model.NotificationNewOrder,
		Title:       "New order",
		Message: fmt.Sprintf("%s placed an order of %s for %s at %s.",
			order.CustomerName, order.TotalAmount.StringFixed(2),
			order.RequestedDeliveryDate.String(), order.EstimatedDeliveryTime),
		Metadata: map[string]string{"orderId": order.ID.String()},
	}
}

// StatusChanged tells the customer their order moved to a new status.
func StatusChanged(recipient string, order *model.Order) model.Notification {
	return model.Notification{
		RecipientID: recipient,
		Type:        model.NotificationOrderStatus,
		Title:       "Order update",
		Message:     fmt.Sprintf("Your order is now %s.", order.Status),
		Metadata: map[string]string{
			"orderId": order.ID.String(),
			"status":  string(order.Status),
		},
	}
}

// Recipient picks who hears about an order: the signed-in customer, else the email given at checkout.
func Recipient(order *model.Order) string {
	if order.CustomerID != nil && *order.CustomerID != "" {
		return *order.CustomerID
	}
	return order.CustomerEmail
}
