package repository

import (
	"context"
	"errors"
	"fmt"

	"dinekart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const menuColumns = `id, name, description, price, category, image_url, available, created_at`

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

func scanMenuItem(row rowScanner) (model.MenuItem, error) {
	var m model.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category, &m.ImageURL, &m.Available, &m.CreatedAt)
	return m, err
}

func (r *menuRepository) query(ctx context.Context, query string, args ...any) ([]model.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// List retrieves available menu items, optionally filtered by category.
func (r *menuRepository) List(ctx context.Context, category string, limit, offset int) ([]model.MenuItem, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM menu_items
		WHERE available AND ($1 = '' OR category = $1)
		ORDER BY category, name
		LIMIT $2 OFFSET $3
	`

	return r.query(ctx, query, category, pageLimit(limit), offset)
}

// All retrieves every menu item.
func (r *menuRepository) All(ctx context.Context) ([]model.MenuItem, error) {
	return r.query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`

	m, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("menu_item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &m, nil
}

// Create inserts a new menu item.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, category, image_url, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Description, money(item.Price),
		item.Category, item.ImageURL, item.Available, item.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", item.ID).Msg("failed to create menu item")
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	return nil
}

// Update replaces a menu item.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5, image_url = $6, available = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Description, money(item.Price),
		item.Category, item.ImageURL, item.Available,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", item.ID).Msg("failed to update menu item")
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	return nil
}

// Delete removes a menu item. Orders keep their own snapshot of the line.
func (r *menuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	return nil
}
