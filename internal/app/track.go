package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"coin-tracker/internal/catalog"
)

// Track searches the catalog and adds the selected candidate to the tracked
// set. Candidate selection is non-interactive: a lone priority-table hit is
// taken directly, otherwise the caller picks with --select.
func (a *App) Track(ctx context.Context, opts TrackOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	src := a.newSource()
	matches, err := catalog.Search(ctx, src, opts.Query, opts.Limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no quality coins found for query %q; try a different symbol or name", opts.Query)
	}

	printCandidates(matches)

	var selected catalog.Entry
	switch {
	case len(matches) == 1 && catalog.IsPriority(matches[0]):
		selected = matches[0]
		fmt.Fprintf(os.Stdout, "\nauto-selecting best match: %s\n", selected.Name)
	case !opts.ChoiceSet:
		fmt.Fprintln(os.Stdout, "\nre-run with --select N to track a candidate (0 cancels)")
		return nil
	default:
		selected, err = catalog.Select(matches, opts.Choice)
		if err != nil {
			return err
		}
	}

	coin, err := a.newTracker(store).Track(ctx, selected)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "now tracking: %s (%s)\n", coin.Name, strings.ToUpper(coin.Symbol))
	return nil
}

// Search prints catalog candidates for a query without tracking anything.
func (a *App) Search(ctx context.Context, opts SearchOptions) error {
	matches, err := catalog.Search(ctx, a.newSource(), opts.Query, opts.Limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "no matches found")
		return nil
	}
	printCandidates(matches)
	return nil
}

// List prints all tracked coins.
func (a *App) List(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	coins, err := store.ListTracked(ctx)
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		fmt.Fprintln(os.Stdout, "no coins are currently tracked")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Name\tSymbol\tCoin ID\tSince (UTC)")
	for _, coin := range coins {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			coin.Name,
			strings.ToUpper(coin.Symbol),
			coin.CoinID,
			coin.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return writer.Flush()
}

// Untrack removes a tracked coin, optionally purging its price history.
func (a *App) Untrack(ctx context.Context, opts UntrackOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	purged, err := a.newTracker(store).Untrack(ctx, opts.CoinID, opts.PurgePrices)
	if err != nil {
		return err
	}

	if opts.PurgePrices {
		fmt.Fprintf(os.Stdout, "stopped tracking %s (purged %d price records)\n", opts.CoinID, purged)
	} else {
		fmt.Fprintf(os.Stdout, "stopped tracking %s\n", opts.CoinID)
	}
	return nil
}

func printCandidates(matches []catalog.Entry) {
	fmt.Fprintln(os.Stdout, "candidates:")
	for i, entry := range matches {
		fmt.Fprintf(os.Stdout, "%d) %s (%s)\n", i+1, entry.Name, strings.ToUpper(entry.Symbol))
	}
}
