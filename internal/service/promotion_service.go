package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dinekart/internal/model"
	"dinekart/internal/promotion"
	"dinekart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// promotionService implements PromotionService.
type promotionService struct {
	repo      repository.PromotionRepository
	validator promotion.Validator
	logger    zerolog.Logger
}

// NewPromotionService creates a new promotion service. Writes go to repo and
// invalidate validator's catalog.
func NewPromotionService(repo repository.PromotionRepository, validator promotion.Validator, logger zerolog.Logger) PromotionService {
	return &promotionService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("service", "promotion").Logger(),
	}
}

// Validate returns the verdict for a code against an order total.
func (s *promotionService) Validate(ctx context.Context, req *model.ValidatePromotionRequest) (model.PromotionResult, error) {
	if req == nil || strings.TrimSpace(req.Code) == "" {
		return model.PromotionResult{}, model.NewDomainError(model.ErrCodeInvalidRequest, "Promotion code is required")
	}
	if req.OrderTotal.IsNegative() {
		return model.PromotionResult{}, model.NewDomainError(model.ErrCodeInvalidRequest, "Order total must not be negative")
	}

	result, err := s.validator.Validate(ctx, req.Code, req.OrderTotal)
	if err != nil {
		s.logger.Error().Err(err).Str("code", req.Code).Msg("failed to validate promotion")
		return model.PromotionResult{}, fmt.Errorf("failed to validate promotion: %w", err)
	}

	s.logger.Debug().
		Str("code", result.Code).
		Bool("valid", result.Valid).
		Str("reason", result.Reason).
		Msg("promotion validated")
	return result, nil
}

// List retrieves every stored promotion.
func (s *promotionService) List(ctx context.Context) ([]model.Promotion, error) {
	promotions, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list promotions")
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func validatePromotion(p *model.Promotion) error {
	switch {
	case p.Code == "":
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Promotion code is required")
	case !p.DiscountType.Valid():
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Discount type must be percentage or fixed")
	case !p.DiscountValue.IsPositive():
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Discount value must be greater than zero")
	case p.DiscountType == model.DiscountPercentage && p.DiscountValue.GreaterThan(hundred):
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Percentage discount cannot exceed 100")
	case p.MinimumOrder != nil && p.MinimumOrder.IsNegative():
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Minimum order must not be negative")
	}
	return nil
}

// Create stores a promotion.
func (s *promotionService) Create(ctx context.Context, p *model.Promotion) (*model.Promotion, error) {
	if p == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Promotion is required")
	}

	created := *p
	created.Code = strings.TrimSpace(created.Code)
	if err := validatePromotion(&created); err != nil {
		return nil, err
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, &created); err != nil {
		if errors.Is(err, model.ErrPromotionExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("code", created.Code).Msg("failed to create promotion")
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	s.validator.Invalidate()

	s.logger.Info().
		Str("code", created.Code).
		Str("discount_type", string(created.DiscountType)).
		Str("discount_value", created.DiscountValue.String()).
		Msg("promotion created")
	return &created, nil
}

// SetActive toggles a promotion.
func (s *promotionService) SetActive(ctx context.Context, code string, active bool) (*model.Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, model.ErrPromotionNotFound
	}

	p, err := s.repo.SetActive(ctx, code, active)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to update promotion")
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	if p == nil {
		return nil, model.ErrPromotionNotFound
	}
	s.validator.Invalidate()

	s.logger.Info().Str("code", p.Code).Bool("active", active).Msg("promotion updated")
	return p, nil
}
