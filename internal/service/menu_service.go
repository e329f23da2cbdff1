package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dinekart/internal/model"
	"dinekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// page clamps pagination parameters.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List retrieves available menu items with pagination.
func (s *menuService) List(ctx context.Context, category string, limit, offset int) ([]model.MenuItem, error) {
	limit, offset = page(limit, offset)
	category = strings.TrimSpace(category)

	items, err := s.menuRepo.List(ctx, category, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	s.logger.Debug().
		Int("count", len(items)).
		Str("category", category).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved menu items")

	return items, nil
}

// GetByID retrieves a single menu item by ID.
func (s *menuService) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	if id == "" {
		s.logger.Warn().Msg("menu item ID is empty")
		return nil, model.ErrMenuItemNotFound
	}

	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to get menu item by ID")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	if item == nil {
		s.logger.Debug().Str("menu_item_id", id).Msg("menu item not found")
		return nil, model.ErrMenuItemNotFound
	}

	return item, nil
}

func validateMenuItem(req *model.MenuItemRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Menu item is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Name is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Category is required")
	}
	if !req.Price.IsPositive() {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Price must be greater than zero")
	}
	if req.Price.Exponent() < -2 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Price must have at most two decimal places")
	}
	return nil
}

func menuItemFromRequest(id string, req *model.MenuItemRequest) *model.MenuItem {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return &model.MenuItem{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Available:   available,
	}
}

// Create adds a menu item. A blank ID gets a generated one.
func (s *menuService) Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if err := validateMenuItem(req); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	item := menuItemFromRequest(id, req)
	item.CreatedAt = time.Now().UTC()

	if err := s.menuRepo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info().Str("menu_item_id", id).Str("category", item.Category).Msg("menu item created")
	return item, nil
}

// Update replaces a menu item.
func (s *menuService) Update(ctx context.Context, id string, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if err := validateMenuItem(req); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item := menuItemFromRequest(id, req)
	item.CreatedAt = existing.CreatedAt

	if err := s.menuRepo.Update(ctx, item); err != nil {
		if errors.Is(err, model.ErrMenuItemNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to update menu item")
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.logger.Info().Str("menu_item_id", id).Msg("menu item updated")
	return item, nil
}

// Delete removes a menu item.
func (s *menuService) Delete(ctx context.Context, id string) error {
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrMenuItemNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.logger.Info().Str("menu_item_id", id).Msg("menu item deleted")
	return nil
}
