package service

import (
	"context"
	"fmt"
	"time"

	"dinekart/internal/admin"
	"dinekart/internal/model"
	"dinekart/internal/repository"

	"github.com/rs/zerolog"
)

// adminService implements AdminService.
type adminService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	menuRepo     repository.MenuRepository
	location     *time.Location
	now          func() time.Time
	logger       zerolog.Logger
}

// NewAdminService creates a new admin service. Calendar days are counted in loc.
func NewAdminService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	menuRepo repository.MenuRepository,
	loc *time.Location,
	now func() time.Time,
	logger zerolog.Logger,
) AdminService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &adminService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		menuRepo:     menuRepo,
		location:     loc,
		now:          now,
		logger:       logger.With().Str("service", "admin").Logger(),
	}
}

// Stats computes the dashboard summary.
func (s *adminService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	orders, err := s.orderRepo.All(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load orders")
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	customers, err := s.customerRepo.All(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load customers")
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	items, err := s.menuRepo.All(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load menu items")
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	stats := admin.ComputeStats(orders, customers, items, s.now().In(s.location))
	return &stats, nil
}
