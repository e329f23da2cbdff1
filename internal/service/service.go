package service

import (
	"context"

	"dinekart/internal/auth"
	"dinekart/internal/model"
	"dinekart/internal/payment"

	"github.com/google/uuid"
)

// MenuService defines operations for menu management.
type MenuService interface {
	// List retrieves available menu items, optionally filtered by category, with pagination.
	List(ctx context.Context, category string, limit, offset int) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by ID.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// Create adds a menu item.
	Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)

	// Update replaces a menu item.
	Update(ctx context.Context, id string, req *model.MenuItemRequest) (*model.MenuItem, error)

	// Delete removes a menu item.
	Delete(ctx context.Context, id string) error
}

// CartService defines operations on a customer's cart, addressed by cart key.
type CartService interface {
	// Get returns the cart with a freshly computed total.
	Get(ctx context.Context, key string) (model.CartResponse, error)

	// AddItem adds one unit of a menu item.
	AddItem(ctx context.Context, key, menuItemID string) (model.CartResponse, error)

	// UpdateQuantity sets a line's quantity; zero or less removes it.
	UpdateQuantity(ctx context.Context, key, itemID string, quantity int) (model.CartResponse, error)

	// RemoveItem removes a line.
	RemoveItem(ctx context.Context, key, itemID string) (model.CartResponse, error)

	// Clear empties the cart.
	Clear(ctx context.Context, key string) error

	// Adopt merges a guest cart into a signed-in customer's cart.
	Adopt(ctx context.Context, from, to string) (model.CartResponse, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout assembles an order from the cart, stores it and opens a payment session.
	// identity is nil for guests.
	Checkout(ctx context.Context, identity *auth.Identity, cartKey string, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// HandlePaymentEvent applies a verified payment webhook.
	HandlePaymentEvent(ctx context.Context, event *payment.Event) error

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders matching filter.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// UpdateStatus moves an order along its lifecycle and notifies the customer.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// CustomerService defines operations on customer profiles.
type CustomerService interface {
	// Profile returns the caller's profile, creating it on first use.
	Profile(ctx context.Context, identity *auth.Identity) (*model.Customer, error)

	// UpdateProfile replaces the caller's editable profile fields.
	UpdateProfile(ctx context.Context, identity *auth.Identity, req *model.UpdateProfileRequest) (*model.Customer, error)

	// List retrieves customers with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Customer, error)
}

// PromotionService defines operations on promotion codes.
type PromotionService interface {
	// Validate returns the verdict for a code against an order total.
	Validate(ctx context.Context, req *model.ValidatePromotionRequest) (model.PromotionResult, error)

	// List retrieves every stored promotion.
	List(ctx context.Context) ([]model.Promotion, error)

	// Create stores a promotion.
	Create(ctx context.Context, p *model.Promotion) (*model.Promotion, error)

	// SetActive toggles a promotion.
	SetActive(ctx context.Context, code string, active bool) (*model.Promotion, error)
}

// AdminService defines dashboard operations.
type AdminService interface {
	// Stats computes the dashboard summary.
	Stats(ctx context.Context) (*model.DashboardStats, error)
}
