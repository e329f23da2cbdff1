package payment

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Config selects and configures a provider.
type Config struct {
	Provider        string
	Stripe          StripeConfig
	MockCheckoutURL string
}

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(cfg Config, logger zerolog.Logger) (Provider, error) {
	switch cfg.Provider {
	case ProviderStripe:
		return NewStripeProvider(cfg.Stripe, logger), nil
	case ProviderMock, "":
		return NewMockProvider(cfg.MockCheckoutURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
