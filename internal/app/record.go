package app

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Record snapshots the current price for one coin, or for all tracked coins
// when no coin id is given. A failing coin in the batch does not abort the
// rest.
func (a *App) Record(ctx context.Context, opts RecordOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	trk := a.newTracker(store)

	if coinID := strings.ToLower(strings.TrimSpace(opts.CoinID)); coinID != "" {
		obs, err := trk.RecordPrice(ctx, coinID)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "recorded %s: $%.4f\n", obs.CoinID, obs.Price)
		return nil
	}

	observations, err := trk.RecordAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "recorded %d price snapshots\n", len(observations))
	return nil
}
