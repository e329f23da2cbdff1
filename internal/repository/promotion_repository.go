package repository

import (
	"context"
	"errors"
	"fmt"

	"dinekart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const promotionColumns = `code, discount_type, discount_value, minimum_order, active, expires_at, created_at`

// promotionRepository implements the PromotionRepository interface using PostgreSQL.
type promotionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromotionRepository {
	return &promotionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

func scanPromotion(row rowScanner) (model.Promotion, error) {
	var (
		p            model.Promotion
		discountType string
		minimum      decimal.NullDecimal
	)
	err := row.Scan(&p.Code, &discountType, &p.DiscountValue, &minimum, &p.Active, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	p.DiscountType = model.DiscountType(discountType)
	p.MinimumOrder = fromNullDecimal(minimum)
	return p, nil
}

// List retrieves every promotion.
func (r *promotionRepository) List(ctx context.Context) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY code`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query promotions")
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	promotions := []model.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan promotion row")
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating promotion rows")
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}

	return promotions, nil
}

// Create inserts a promotion.
func (r *promotionRepository) Create(ctx context.Context, p *model.Promotion) error {
	query := `
		INSERT INTO promotions (` + promotionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		p.Code, string(p.DiscountType), money(p.DiscountValue), nullableMoney(p.MinimumOrder),
		p.Active, p.ExpiresAt, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrPromotionExists
		}
		r.logger.Error().Err(err).Str("code", p.Code).Msg("failed to create promotion")
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	return nil
}

// SetActive toggles a promotion, matching the code ignoring case.
func (r *promotionRepository) SetActive(ctx context.Context, code string, active bool) (*model.Promotion, error) {
	query := `
		UPDATE promotions
		SET active = $2
		WHERE LOWER(code) = LOWER($1)
		RETURNING ` + promotionColumns

	p, err := scanPromotion(r.pool.QueryRow(ctx, query, code, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to update promotion")
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	return &p, nil
}
