package service

import (
	"context"
	"fmt"

	"dinekart/internal/cart"
	"dinekart/internal/model"
	"dinekart/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService over a snapshot store.
type cartService struct {
	store    cart.Store
	locker   *cart.Locker
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service. locker must be shared with every
// other writer of the same store.
func NewCartService(store cart.Store, locker *cart.Locker, menuRepo repository.MenuRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:    store,
		locker:   locker,
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// mutate runs fn against the stored cart under the key's lock and saves the result.
func (s *cartService) mutate(ctx context.Context, key string, fn func(c *cart.Cart) error) (model.CartResponse, error) {
	unlock := s.locker.Lock(key)
	defer unlock()

	c, err := s.store.Load(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to load cart")
		return model.CartResponse{}, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := fn(c); err != nil {
		return model.CartResponse{}, err
	}

	if err := s.store.Save(ctx, key, c); err != nil {
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to save cart")
		return model.CartResponse{}, fmt.Errorf("failed to save cart: %w", err)
	}

	return c.Response(), nil
}

// Get returns the cart with a freshly computed total.
func (s *cartService) Get(ctx context.Context, key string) (model.CartResponse, error) {
	c, err := s.store.Load(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to load cart")
		return model.CartResponse{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return c.Response(), nil
}

// AddItem adds one unit of a menu item. Name, price and image come from the menu,
// never from the caller.
func (s *cartService) AddItem(ctx context.Context, key, menuItemID string) (model.CartResponse, error) {
	if menuItemID == "" {
		return model.CartResponse{}, model.ErrMenuItemNotFound
	}

	item, err := s.menuRepo.GetByID(ctx, menuItemID)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", menuItemID).Msg("failed to get menu item")
		return model.CartResponse{}, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil || !item.Available {
		s.logger.Debug().Str("menu_item_id", menuItemID).Msg("menu item not found or unavailable")
		return model.CartResponse{}, model.ErrMenuItemNotFound
	}

	resp, err := s.mutate(ctx, key, func(c *cart.Cart) error {
		if c.Quantity(item.ID) >= cart.MaxQuantity {
			return model.ErrInvalidQuantity
		}
		c.AddItem(model.CartItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Image: item.ImageURL,
		})
		return nil
	})
	if err != nil {
		return resp, err
	}

	s.logger.Debug().
		Str("cart_key", key).
		Str("menu_item_id", menuItemID).
		Int("item_count", resp.ItemCount).
		Msg("item added to cart")
	return resp, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, key, itemID string, quantity int) (model.CartResponse, error) {
	if quantity > cart.MaxQuantity {
		return model.CartResponse{}, model.ErrInvalidQuantity
	}
	return s.mutate(ctx, key, func(c *cart.Cart) error {
		c.UpdateQuantity(itemID, quantity)
		return nil
	})
}

// RemoveItem removes a line.
func (s *cartService) RemoveItem(ctx context.Context, key, itemID string) (model.CartResponse, error) {
	return s.mutate(ctx, key, func(c *cart.Cart) error {
		c.RemoveItem(itemID)
		return nil
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, key string) error {
	unlock := s.locker.Lock(key)
	defer unlock()

	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Adopt merges the guest cart at from into the cart at to and removes from.
func (s *cartService) Adopt(ctx context.Context, from, to string) (model.CartResponse, error) {
	if from == to {
		return s.Get(ctx, to)
	}

	// Lock in a fixed order so two adoptions cannot deadlock.
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	unlockFirst := s.locker.Lock(first)
	defer unlockFirst()
	unlockSecond := s.locker.Lock(second)
	defer unlockSecond()

	if err := cart.Move(ctx, s.store, from, to); err != nil {
		s.logger.Error().Err(err).Str("from", from).Str("to", to).Msg("failed to merge carts")
		return model.CartResponse{}, fmt.Errorf("failed to merge carts: %w", err)
	}

	s.logger.Info().Str("from", from).Str("to", to).Msg("guest cart merged")
	return s.Get(ctx, to)
}
