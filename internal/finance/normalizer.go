package finance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// DefaultBaseCurrency is used when no base currency is configured.
const DefaultBaseCurrency = "CAD"

// Normalizer converts amounts into the base currency.
type Normalizer struct {
	base     string
	provider RateProvider
	logger   *slog.Logger
}

// NewNormalizer creates a Normalizer for the given base currency. A nil logger
// falls back to slog.Default().
func NewNormalizer(base string, provider RateProvider, logger *slog.Logger) *Normalizer {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = DefaultBaseCurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{base: base, provider: provider, logger: logger}
}

// Base returns the base currency code.
func (n *Normalizer) Base() string {
	return n.base
}

// Normalize converts amount from currency into the base currency. Amounts
// already in the base currency are returned unchanged without consulting the
// provider. Any provider failure is reported as ErrRateUnavailable.
func (n *Normalizer) Normalize(ctx context.Context, amount float64, currency string) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == n.base {
		return amount, nil
	}
	if n.provider == nil {
		return 0, fmt.Errorf("%w: no rate provider for %s->%s", ErrRateUnavailable, currency, n.base)
	}

	rate, err := n.provider.LookupRate(ctx, currency, n.base)
	if err != nil {
		return 0, fmt.Errorf("%w: %s->%s: %w", ErrRateUnavailable, currency, n.base, err)
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: %s->%s: bad rate %v", ErrRateUnavailable, currency, n.base, rate)
	}

	n.logger.InfoContext(ctx, "Exchange rate resolved",
		"from", currency,
		"to", n.base,
		"rate", rate)

	return amount * rate, nil
}
