package service

import (
	"context"
	"fmt"
	"strings"

	"dinekart/internal/auth"
	"dinekart/internal/model"
	"dinekart/internal/repository"

	"github.com/rs/zerolog"
)

// customerService implements CustomerService.
type customerService struct {
	repo   repository.CustomerRepository
	logger zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return &customerService{
		repo:   repo,
		logger: logger.With().Str("service", "customer").Logger(),
	}
}

// Profile returns the caller's profile, creating it on first use.
func (s *customerService) Profile(ctx context.Context, identity *auth.Identity) (*model.Customer, error) {
	if identity == nil {
		return nil, model.ErrUnauthorised
	}

	c, err := s.repo.Ensure(ctx, identity.Subject, identity.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", identity.Subject).Msg("failed to load customer profile")
		return nil, fmt.Errorf("failed to load customer profile: %w", err)
	}
	return c, nil
}

// UpdateProfile replaces the caller's editable profile fields.
func (s *customerService) UpdateProfile(ctx context.Context, identity *auth.Identity, req *model.UpdateProfileRequest) (*model.Customer, error) {
	if identity == nil {
		return nil, model.ErrUnauthorised
	}
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Profile is required")
	}

	clean := model.UpdateProfileRequest{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
	}

	// The row may not exist yet if the caller has never fetched their profile.
	if _, err := s.repo.Ensure(ctx, identity.Subject, identity.Email); err != nil {
		s.logger.Error().Err(err).Str("customer_id", identity.Subject).Msg("failed to load customer profile")
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}

	c, err := s.repo.UpdateProfile(ctx, identity.Subject, clean)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", identity.Subject).Msg("failed to update customer profile")
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}

	s.logger.Info().Str("customer_id", identity.Subject).Msg("customer profile updated")
	return c, nil
}

// List retrieves customers with pagination.
func (s *customerService) List(ctx context.Context, limit, offset int) ([]model.Customer, error) {
	limit, offset = page(limit, offset)

	customers, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list customers")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
