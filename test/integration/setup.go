package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"dinekart/internal/auth"
	"dinekart/internal/cart"
	"dinekart/internal/checkout"
	"dinekart/internal/database"
	"dinekart/internal/delivery"
	"dinekart/internal/handler"
	"dinekart/internal/notify"
	"dinekart/internal/order"
	"dinekart/internal/payment"
	"dinekart/internal/promotion"
	"dinekart/internal/repository"
	"dinekart/internal/router"
	"dinekart/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAPIKey    = "test-api-key"
	testJWTSecret = "integration-secret"
)

// testNow is Monday 12 October 2026; the first bookable date is Friday 23 October.
var testNow = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedMenu inserts test menu items into the database.
func SeedMenu(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	items := []struct {
		id        string
		name      string
		price     string
		category  string
		available bool
	}{
		{"burger", "Smash Burger", "12.50", "Mains", true},
		{"lamb", "Lamb Shoulder", "32.00", "Mains", true},
		{"fries", "Fries", "4.00", "Sides", true},
		{"soup", "Soup of the Day", "8.00", "Starters", false},
	}

	for _, item := range items {
		_, err := pool.Exec(ctx,
			"INSERT INTO menu_items (id, name, description, price, category, image_url, available) VALUES ($1, $2, '', $3, $4, '', $5)",
			item.id, item.name, item.price, item.category, item.available,
		)
		if err != nil {
			t.Fatalf("failed to seed menu item %s: %v", item.id, err)
		}
	}

	_, err := pool.Exec(ctx,
		"INSERT INTO promotions (code, discount_type, discount_value, minimum_order, active) VALUES ($1, $2, $3, $4, TRUE)",
		"WELCOME10", "percentage", "10", "40",
	)
	if err != nil {
		t.Fatalf("failed to seed promotion: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"notifications", "order_items", "orders", "customers", "promotions", "menu_items"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// setupTestServer wires the full API over the test database with an in-memory cart
// store, the mock payment provider and a fixed clock.
func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	ctx := context.Background()
	now := func() time.Time { return testNow }

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	customerRepo := repository.NewCustomerRepository(testDB.Pool, logger)
	promotionRepo := repository.NewPromotionRepository(testDB.Pool, logger)

	carts := cart.NewMemoryStore()
	locker := cart.NewLocker()

	// Initialize promotion validator over the promotions table
	validator := promotion.NewValidator(ctx, &promotion.ValidatorConfig{
		RefreshInterval: time.Minute,
		Now:             now,
	}, promotion.NewRepositorySource(promotionRepo), logger)
	t.Cleanup(func() {
		validator.Close()
	})

	slots := delivery.NewGenerator(delivery.DefaultConfig(), now)
	assembler := order.NewAssembler(order.Pricing{
		FreeDeliveryThreshold: decimal.NewFromInt(50),
		DeliveryFee:           decimal.RequireFromString("4.99"),
	}, validator, slots, now, logger)

	provider := payment.NewMockProvider("http://localhost:3000/mock-checkout", logger)
	dispatcher := checkout.NewDispatcher(provider, logger)
	notifier := notify.NewPostgresDispatcher(testDB.Pool, logger)

	verifier, err := auth.NewVerifier(auth.Config{Secret: testJWTSecret, Now: now})
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	cartService := service.NewCartService(carts, locker, menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, customerRepo, carts, locker, assembler, dispatcher, notifier, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	promotionService := service.NewPromotionService(promotionRepo, validator, logger)
	adminService := service.NewAdminService(orderRepo, customerRepo, menuRepo, time.UTC, now, logger)

	// Create router
	return router.New(router.Handlers{
		Menu:      handler.NewMenuHandler(menuService, logger),
		Cart:      handler.NewCartHandler(cartService, logger),
		Delivery:  handler.NewDeliveryHandler(slots),
		Promotion: handler.NewPromotionHandler(promotionService, logger),
		Order:     handler.NewOrderHandler(orderService, cartService, logger),
		Customer:  handler.NewCustomerHandler(customerService, logger),
		Payment:   handler.NewPaymentHandler(dispatcher, orderService, logger),
		Admin:     handler.NewAdminHandler(adminService, logger),
	}, router.Config{
		ServiceName: "dinekart-integration",
		APIKey:      testAPIKey,
		Verifier:    verifier,
	}, logger)
}

// signToken mints a customer access token accepted by the test server.
func signToken(t *testing.T, subject, email string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  "authenticated",
		"exp":   testNow.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
