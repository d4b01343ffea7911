package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"coin-tracker/internal/storage"
)

var (
	// ErrInsufficientData indicates the history window is below the
	// operation's minimum sample size.
	ErrInsufficientData = errors.New("analytics: insufficient price history")
	// ErrInvalidInput indicates a bad coin id or record limit.
	ErrInvalidInput = errors.New("analytics: invalid input")
)

const (
	// minMarketRecords is the floor for a market summary.
	minMarketRecords = 2
	// minTrendRecords is higher because trend and volatility are
	// meaningless on very short windows.
	minTrendRecords = 4
)

// MarketReport aggregates descriptive statistics for a coin over a window
// of recent observations.
type MarketReport struct {
	CoinID           string
	RecordCount      int
	OpenPrice        float64
	ClosePrice       float64
	HighPrice        float64
	LowPrice         float64
	AveragePrice     float64
	NetChangePercent float64
}

// TrendReport holds trend, volatility, and momentum analysis for a coin.
type TrendReport struct {
	CoinID           string
	RecordCount      int
	Trend            TrendLabel
	Volatility       VolatilityLevel
	MomentumScore    float64
	NetChangePercent float64
}

// Engine computes analytics reports over price history served by a
// PriceStore. It holds no mutable state; concurrent calls for different
// coins are independent.
type Engine struct {
	store  storage.PriceStore
	logger zerolog.Logger
}

// NewEngine constructs an analytics engine over the given store.
func NewEngine(store storage.PriceStore, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
}

// MarketAnalytics computes a market summary over the last `limit` records.
// RecordCount reports the actual window size, which may be smaller than
// requested; surfacing that as a warning is the caller's call.
func (e *Engine) MarketAnalytics(ctx context.Context, coinID string, limit int) (MarketReport, error) {
	prices, err := e.window(ctx, coinID, limit, minMarketRecords)
	if err != nil {
		return MarketReport{}, err
	}

	open := prices[0]
	close := prices[len(prices)-1]
	high, low := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}

	report := MarketReport{
		CoinID:           coinID,
		RecordCount:      len(prices),
		OpenPrice:        open,
		ClosePrice:       close,
		HighPrice:        high,
		LowPrice:         low,
		AveragePrice:     mean(prices),
		NetChangePercent: NetChangePercent(open, close),
	}

	e.logger.Debug().Str("coin_id", coinID).Int("records", report.RecordCount).Msg("computed market analytics")
	return report, nil
}

// TrendAnalysis computes trend, volatility, and momentum over the last
// `limit` records.
func (e *Engine) TrendAnalysis(ctx context.Context, coinID string, limit int) (TrendReport, error) {
	prices, err := e.window(ctx, coinID, limit, minTrendRecords)
	if err != nil {
		return TrendReport{}, err
	}

	trend, normSlope := Trend(prices)
	netChange := NetChangePercent(prices[0], prices[len(prices)-1])

	report := TrendReport{
		CoinID:           coinID,
		RecordCount:      len(prices),
		Trend:            trend,
		Volatility:       Volatility(prices),
		MomentumScore:    Momentum(netChange, normSlope),
		NetChangePercent: netChange,
	}

	e.logger.Debug().Str("coin_id", coinID).Int("records", report.RecordCount).Msg("computed trend analysis")
	return report, nil
}

// window validates inputs, fetches recent history, and returns the prices in
// chronological order. The store serves newest-first; reversing here is the
// single point where order is flipped before any computation.
func (e *Engine) window(ctx context.Context, coinID string, limit, floor int) ([]float64, error) {
	if strings.TrimSpace(coinID) == "" {
		return nil, fmt.Errorf("%w: coin id is empty", ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, limit)
	}

	history, err := e.store.RecentPrices(ctx, coinID, limit)
	if err != nil {
		return nil, err
	}
	if len(history) < floor {
		return nil, fmt.Errorf("%w: need at least %d records for %q, found %d",
			ErrInsufficientData, floor, coinID, len(history))
	}

	prices := make([]float64, len(history))
	for i, obs := range history {
		prices[len(history)-1-i] = obs.Price
	}
	return prices, nil
}
