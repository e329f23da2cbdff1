package repository

import (
	"context"

	"dinekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MenuRepository defines the interface for menu data access operations.
type MenuRepository interface {
	// List retrieves menu items, optionally filtered by category, with pagination support.
	List(ctx context.Context, category string, limit, offset int) ([]model.MenuItem, error)

	// All retrieves every menu item, including unavailable ones.
	All(ctx context.Context) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// Create inserts a new menu item.
	Create(ctx context.Context, item *model.MenuItem) error

	// Update replaces a menu item. Returns model.ErrMenuItemNotFound when absent.
	Update(ctx context.Context, item *model.MenuItem) error

	// Delete removes a menu item. Returns model.ErrMenuItemNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByPaymentSession retrieves the order a payment session was created for.
	GetByPaymentSession(ctx context.Context, sessionID string) (*model.Order, error)

	// List retrieves orders with their items, newest first.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// All retrieves every order header without items.
	All(ctx context.Context) ([]model.Order, error)

	// UpdateStatus moves an order from one status to another within the provided transaction.
	// Returns model.ErrInvalidStatusTransition when the order is no longer in the from status.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) error

	// UpdatePaymentStatus sets the payment status within the provided transaction.
	UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.PaymentStatus) error

	// MarkPaid records payment within the provided transaction. It reports false when the
	// order was already paid, so concurrent confirmations apply only once.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)

	// SetPaymentSession records the hosted payment session created for an order.
	SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID string) error
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// GetByID retrieves a customer by identity subject. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Customer, error)

	// Ensure creates the customer on first sight and refreshes the email otherwise.
	Ensure(ctx context.Context, id, email string) (*model.Customer, error)

	// UpdateProfile replaces the editable profile fields.
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.Customer, error)

	// List retrieves customers, newest first, with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Customer, error)

	// All retrieves every customer.
	All(ctx context.Context) ([]model.Customer, error)
}

// PromotionRepository defines the interface for promotion data access operations.
type PromotionRepository interface {
	// List retrieves every promotion.
	List(ctx context.Context) ([]model.Promotion, error)

	// Create inserts a promotion. Returns model.ErrPromotionExists on a case-insensitive duplicate.
	Create(ctx context.Context, p *model.Promotion) error

	// SetActive toggles a promotion, matching the code ignoring case. Returns nil when absent.
	SetActive(ctx context.Context, code string, active bool) (*model.Promotion, error)
}
