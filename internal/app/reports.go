package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"coin-tracker/internal/analytics"
)

// MarketStats prints a market summary over the most recent records. The
// engine reports the actual window size; warning about a short window is
// this layer's job, not the engine's.
func (a *App) MarketStats(ctx context.Context, opts ReportOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := analytics.NewEngine(store, a.Logger)
	report, err := engine.MarketAnalytics(ctx, opts.CoinID, opts.Limit)
	if err != nil {
		return err
	}

	a.warnShortWindow(report.RecordCount, opts.Limit)

	fmt.Fprintf(os.Stdout, "market analytics for %s (last %d records)\n", report.CoinID, report.RecordCount)
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Open\t$%.4f\n", report.OpenPrice)
	fmt.Fprintf(writer, "Close\t$%.4f\n", report.ClosePrice)
	fmt.Fprintf(writer, "High\t$%.4f\n", report.HighPrice)
	fmt.Fprintf(writer, "Low\t$%.4f\n", report.LowPrice)
	fmt.Fprintf(writer, "Average\t$%.4f\n", report.AveragePrice)
	fmt.Fprintf(writer, "Net change\t%+.2f%%\n", report.NetChangePercent)
	return writer.Flush()
}

// TrendStats prints trend, volatility, and momentum analysis.
func (a *App) TrendStats(ctx context.Context, opts ReportOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := analytics.NewEngine(store, a.Logger)
	report, err := engine.TrendAnalysis(ctx, opts.CoinID, opts.Limit)
	if err != nil {
		return err
	}

	a.warnShortWindow(report.RecordCount, opts.Limit)

	fmt.Fprintf(os.Stdout, "trend analysis for %s (last %d records)\n", report.CoinID, report.RecordCount)
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Trend\t%s\n", report.Trend)
	fmt.Fprintf(writer, "Volatility\t%s\n", report.Volatility)
	fmt.Fprintf(writer, "Momentum\t%.1f / 10\n", report.MomentumScore)
	fmt.Fprintf(writer, "Net change\t%+.2f%%\n", report.NetChangePercent)
	return writer.Flush()
}

func (a *App) warnShortWindow(available, requested int) {
	if available < requested {
		a.Logger.Warn().
			Int("available", available).
			Int("requested", requested).
			Msg("fewer records than requested; analytics computed on this subset")
	}
}
