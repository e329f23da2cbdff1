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

const customerColumns = `id, email, first_name, last_name, phone, address, role, created_at, updated_at`

// customerRepository implements the CustomerRepository interface using PostgreSQL.
type customerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

func scanCustomer(row rowScanner) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.Role, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *customerRepository) one(ctx context.Context, op, id, query string, args ...any) (*model.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", id).Msgf("failed to %s customer", op)
		return nil, fmt.Errorf("failed to %s customer: %w", op, err)
	}
	return &c, nil
}

// GetByID retrieves a customer by identity subject.
func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.one(ctx, "query", id, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// Ensure creates the customer on first sight and refreshes the email otherwise.
func (r *customerRepository) Ensure(ctx context.Context, id, email string) (*model.Customer, error) {
	query := `
		INSERT INTO customers (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET email = CASE WHEN EXCLUDED.email = '' THEN customers.email ELSE EXCLUDED.email END
		RETURNING ` + customerColumns

	return r.one(ctx, "ensure", id, query, id, email)
}

// UpdateProfile replaces the editable profile fields.
func (r *customerRepository) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.Customer, error) {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + customerColumns

	return r.one(ctx, "update", id, query, id, req.FirstName, req.LastName, req.Phone, req.Address)
}

// List retrieves customers, newest first.
func (r *customerRepository) List(ctx context.Context, limit, offset int) ([]model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.query(ctx, query, pageLimit(limit), offset)
}

// All retrieves every customer.
func (r *customerRepository) All(ctx context.Context) ([]model.Customer, error) {
	return r.query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at`)
}

func (r *customerRepository) query(ctx context.Context, query string, args ...any) ([]model.Customer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query customers")
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan customer row")
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating customer rows")
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}
