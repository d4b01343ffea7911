// Package tracker coordinates the price source and the store: tracked-coin
// CRUD and price snapshot recording.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"coin-tracker/internal/catalog"
	"coin-tracker/internal/source"
	"coin-tracker/internal/storage"
)

// ErrAlreadyTracked indicates the coin is already in the tracked set.
var ErrAlreadyTracked = errors.New("tracker: coin already tracked")

// Tracker is the recording service. Collaborators are injected; their retry
// and timeout behaviour is their own.
type Tracker struct {
	src    source.PriceSource
	prices storage.PriceStore
	coins  storage.TrackedCoinStore
	logger zerolog.Logger
}

// New constructs a Tracker.
func New(src source.PriceSource, prices storage.PriceStore, coins storage.TrackedCoinStore, logger zerolog.Logger) *Tracker {
	return &Tracker{
		src:    src,
		prices: prices,
		coins:  coins,
		logger: logger.With().Str("component", "tracker").Logger(),
	}
}

// Track adds a catalog entry to the tracked set.
func (t *Tracker) Track(ctx context.Context, entry catalog.Entry) (storage.TrackedCoin, error) {
	tracked, err := t.coins.IsTracked(ctx, entry.ID)
	if err != nil {
		return storage.TrackedCoin{}, err
	}
	if tracked {
		return storage.TrackedCoin{}, fmt.Errorf("%w: %s", ErrAlreadyTracked, entry.ID)
	}

	coin := storage.TrackedCoin{
		CoinID: entry.ID,
		Symbol: strings.ToLower(entry.Symbol),
		Name:   entry.Name,
		Active: true,
	}
	saved, err := t.coins.AddTracked(ctx, coin)
	if err != nil {
		return storage.TrackedCoin{}, err
	}

	t.logger.Info().Str("coin_id", saved.CoinID).Str("name", saved.Name).Msg("tracking new coin")
	return saved, nil
}

// ListTracked returns all tracked coins ordered by name.
func (t *Tracker) ListTracked(ctx context.Context) ([]storage.TrackedCoin, error) {
	return t.coins.ListTracked(ctx)
}

// Untrack removes a coin from the tracked set, optionally purging its price
// history. It returns the number of purged price rows.
func (t *Tracker) Untrack(ctx context.Context, coinID string, purgePrices bool) (int64, error) {
	purged, err := t.coins.DeleteTracked(ctx, coinID, purgePrices)
	if err != nil {
		return 0, err
	}

	event := t.logger.Info().Str("coin_id", coinID)
	if purgePrices {
		event = event.Int64("purged_prices", purged)
	}
	event.Msg("stopped tracking coin")
	return purged, nil
}

// RecordPrice fetches the current price for a coin and persists a snapshot.
func (t *Tracker) RecordPrice(ctx context.Context, coinID string) (storage.PriceObservation, error) {
	price, err := t.src.CurrentPrice(ctx, coinID)
	if err != nil {
		return storage.PriceObservation{}, err
	}

	obs, err := t.prices.SavePrice(ctx, coinID, price, time.Now().UTC())
	if err != nil {
		return storage.PriceObservation{}, err
	}

	t.logger.Info().Str("coin_id", coinID).Float64("price", price).Msg("recorded price snapshot")
	return obs, nil
}

// RecordAll snapshots every tracked coin. A failing coin is logged and
// skipped; the remaining coins are still recorded.
func (t *Tracker) RecordAll(ctx context.Context) ([]storage.PriceObservation, error) {
	coins, err := t.coins.ListTracked(ctx)
	if err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		t.logger.Warn().Msg("no tracked coins to record prices for")
		return nil, nil
	}

	observations := make([]storage.PriceObservation, 0, len(coins))
	for _, coin := range coins {
		select {
		case <-ctx.Done():
			return observations, ctx.Err()
		default:
		}

		obs, err := t.RecordPrice(ctx, coin.CoinID)
		if err != nil {
			t.logger.Error().Err(err).Str("coin_id", coin.CoinID).Str("name", coin.Name).Msg("failed to record price")
			continue
		}
		observations = append(observations, obs)
	}

	t.logger.Info().Int("recorded", len(observations)).Int("tracked", len(coins)).Msg("price recording finished")
	return observations, nil
}
