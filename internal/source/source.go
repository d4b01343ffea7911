package source

import (
	"context"
	"errors"

	"coin-tracker/internal/catalog"
)

var (
	// ErrPriceNotFound indicates the provider has no price for the coin id.
	ErrPriceNotFound = errors.New("source: price not found")
	// ErrSourceUnavailable indicates the provider could not be reached or
	// answered abnormally after retries.
	ErrSourceUnavailable = errors.New("source: provider unavailable")
)

// PriceSource supplies current prices and the provider's coin catalog.
type PriceSource interface {
	CurrentPrice(ctx context.Context, coinID string) (float64, error)
	Catalog(ctx context.Context) ([]catalog.Entry, error)
}
