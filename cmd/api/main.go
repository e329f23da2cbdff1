package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinekart/internal/auth"
	"dinekart/internal/cart"
	"dinekart/internal/checkout"
	"dinekart/internal/config"
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
	"dinekart/internal/telemetry"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting dinekart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.TracingEnabled,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	promotionRepo := repository.NewPromotionRepository(pool, logger)

	// Initialize cart store
	var carts cart.Store
	if cfg.Redis.Enabled {
		client, err := cart.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		carts = cart.NewRedisStore(client, cfg.Redis.CartTTL, logger)
		logger.Info().Msg("using redis cart store")
	} else {
		carts = cart.NewMemoryStore()
		logger.Info().Msg("using in-memory cart store (redis disabled)")
	}
	locker := cart.NewLocker()

	// Initialize promotion validator
	source, err := newPromotionSource(ctx, cfg, promotionRepo, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize promotion source: %w", err)
	}
	validator := promotion.NewValidator(ctx, &promotion.ValidatorConfig{
		RefreshInterval: cfg.Promotions.RefreshInterval,
		Now:             time.Now,
	}, source, logger)
	defer validator.Close()

	// Initialize checkout pipeline
	slots := delivery.NewGenerator(delivery.Config{
		LeadDays:           cfg.Delivery.LeadDays,
		WindowDays:         cfg.Delivery.WindowDays,
		Location:           cfg.Delivery.Location(),
		RevalidateLeadTime: cfg.Delivery.RevalidateLeadTime,
	}, time.Now)

	assembler := order.NewAssembler(order.Pricing{
		FreeDeliveryThreshold: cfg.Checkout.FreeDeliveryThreshold,
		DeliveryFee:           cfg.Checkout.DeliveryFee,
	}, validator, slots, time.Now, logger)

	provider, err := payment.NewProvider(payment.Config{
		Provider: cfg.Payment.Provider,
		Stripe: payment.StripeConfig{
			SecretKey:     cfg.Payment.StripeSecretKey,
			WebhookSecret: cfg.Payment.StripeWebhookSecret,
			APIURL:        cfg.Payment.StripeAPIURL,
			Currency:      cfg.Payment.Currency,
			URLs: payment.URLs{
				Success: cfg.Payment.SuccessURL,
				Cancel:  cfg.Payment.CancelURL,
			},
		},
		MockCheckoutURL: cfg.Payment.MockCheckoutURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment provider: %w", err)
	}
	logger.Info().Str("provider", provider.Name()).Msg("payment provider ready")

	dispatcher := checkout.NewDispatcher(provider, logger)

	var notifier notify.Dispatcher = notify.Nop{}
	if cfg.Notify.Enabled {
		async := notify.NewAsync(notify.NewPostgresDispatcher(pool, logger), cfg.Notify.Timeout, logger)
		// Runs before pool.Close so queued notifications can still be written.
		defer async.Wait()
		notifier = async
	} else {
		logger.Info().Msg("notifications disabled")
	}

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.JWTIssuer,
		Audience: cfg.Auth.JWTAudience,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	cartService := service.NewCartService(carts, locker, menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, customerRepo, carts, locker, assembler, dispatcher, notifier, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	promotionService := service.NewPromotionService(promotionRepo, validator, logger)
	adminService := service.NewAdminService(orderRepo, customerRepo, menuRepo, cfg.Delivery.Location(), time.Now, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Menu:      handler.NewMenuHandler(menuService, logger),
		Cart:      handler.NewCartHandler(cartService, logger),
		Delivery:  handler.NewDeliveryHandler(slots),
		Promotion: handler.NewPromotionHandler(promotionService, logger),
		Order:     handler.NewOrderHandler(orderService, cartService, logger),
		Customer:  handler.NewCustomerHandler(customerService, logger),
		Payment:   handler.NewPaymentHandler(dispatcher, orderService, logger),
		Admin:     handler.NewAdminHandler(adminService, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		APIKey:      cfg.Auth.APIKey,
		CORSOrigin:  cfg.Server.AllowedOrigin,
		Verifier:    verifier,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newPromotionSource picks where the promotion catalog is read from. S3 falls back
// to the local file when the bucket is unreachable.
func newPromotionSource(ctx context.Context, cfg *config.Config, repo repository.PromotionRepository, logger zerolog.Logger) (promotion.Source, error) {
	switch cfg.Promotions.Source {
	case "file":
		logger.Info().Str("path", cfg.Promotions.FilePath).Msg("using promotion file")
		return promotion.NewFileSource(cfg.Promotions.FilePath, logger), nil

	case "s3":
		fileSource := promotion.NewFileSource(cfg.Promotions.FilePath, logger)
		s3Source, err := promotion.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Key, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 source, falling back to local promotion file only")
			return fileSource, nil
		}
		return promotion.NewFallbackSource(s3Source, fileSource, logger), nil

	default:
		logger.Info().Msg("using promotion catalog from database")
		return promotion.NewRepositorySource(repo), nil
	}
}
