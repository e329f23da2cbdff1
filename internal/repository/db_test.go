package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinekart/internal/database"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container with the application schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "4.99", money(decimal.RequireFromString("4.99")))
	assert.Equal(t, "10.00", money(decimal.NewFromInt(10)))
	assert.Equal(t, "0.33", money(decimal.RequireFromString("0.333")))

	assert.Nil(t, nullableMoney(nil))
	minimum := decimal.NewFromInt(20)
	require.NotNil(t, nullableMoney(&minimum))
	assert.Equal(t, "20.00", *nullableMoney(&minimum))
}

func TestFromNullDecimal(t *testing.T) {
	assert.Nil(t, fromNullDecimal(decimal.NullDecimal{}))

	got := fromNullDecimal(decimal.NewNullDecimal(decimal.NewFromInt(15)))
	require.NotNil(t, got)
	assert.True(t, decimal.NewFromInt(15).Equal(*got))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestPageLimit(t *testing.T) {
	assert.Nil(t, pageLimit(0))
	assert.Nil(t, pageLimit(-5))
	require.NotNil(t, pageLimit(20))
	assert.Equal(t, 20, *pageLimit(20))
}
