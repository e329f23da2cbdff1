package promotion

import (
	"context"
	"sync"
	"time"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ValidatorConfig holds configuration for the promotion validator.
type ValidatorConfig struct {
	// RefreshInterval is how long a loaded catalog is served before it is reloaded.
	RefreshInterval time.Duration

	// Now is the clock used for expiry checks and refresh timing.
	Now func() time.Time
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		RefreshInterval: 5 * time.Minute,
		Now:             time.Now,
	}
}

// validator implements Validator over a periodically refreshed catalog.
type validator struct {
	source   Source
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	mu       sync.RWMutex
	catalog  Catalog
	loadedAt time.Time
	stale    bool
}

// NewValidator creates a promotion validator and warms its catalog. A failed warm-up
// is logged; the next Validate retries.
func NewValidator(ctx context.Context, cfg *ValidatorConfig, source Source, logger zerolog.Logger) Validator {
	if cfg == nil {
		cfg = DefaultValidatorConfig()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultValidatorConfig().RefreshInterval
	}

	v := &validator{
		source:   source,
		interval: cfg.RefreshInterval,
		now:      cfg.Now,
		logger:   logger.With().Str("component", "promotion-validator").Logger(),
	}

	if _, err := v.current(ctx); err != nil {
		v.logger.Warn().Err(err).Msg("promotion catalog not loaded at startup")
	}

	return v
}

// Validate returns the verdict for code against orderTotal.
func (v *validator) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (model.PromotionResult, error) {
	catalog, err := v.current(ctx)
	if err != nil {
		return model.PromotionResult{}, err
	}

	result := Evaluate(catalog, code, orderTotal, v.now())

	v.logger.Debug().
		Str("promo_code", code).
		Bool("valid", result.Valid).
		Str("reason", result.Reason).
		Str("discount", result.DiscountAmount.String()).
		Msg("promotion evaluated")

	return result, nil
}

// current returns the cached catalog, reloading it when stale. A failed reload keeps
// serving the previous catalog.
func (v *validator) current(ctx context.Context) (Catalog, error) {
	v.mu.RLock()
	catalog, fresh := v.catalog, v.isFresh()
	v.mu.RUnlock()

	if fresh {
		return catalog, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// Another request may have reloaded while we waited.
	if v.isFresh() {
		return v.catalog, nil
	}

	promotions, err := v.source.Load(ctx)
	if err != nil {
		if v.catalog != nil {
			v.logger.Warn().Err(err).Msg("failed to refresh promotion catalog, serving previous catalog")
			v.loadedAt = v.now()
			v.stale = false
			return v.catalog, nil
		}
		v.logger.Error().Err(err).Msg("failed to load promotion catalog")
		return nil, &model.RemoteCallError{Op: "load promotions", Err: err}
	}

	v.catalog = NewCatalog(promotions)
	v.loadedAt = v.now()
	v.stale = false

	v.logger.Info().Int("promotions", v.catalog.Size()).Msg("promotion catalog loaded")

	return v.catalog, nil
}

func (v *validator) isFresh() bool {
	return v.catalog != nil && !v.stale && v.now().Sub(v.loadedAt) < v.interval
}

// Invalidate forces the next Validate to reload the catalog.
func (v *validator) Invalidate() {
	v.mu.Lock()
	v.stale = true
	v.mu.Unlock()
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.mu.Lock()
	v.catalog = nil
	v.mu.Unlock()

	v.logger.Info().Msg("promotion validator closed")

	return nil
}
