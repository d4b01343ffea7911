package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"coin-tracker/internal/config"
	"coin-tracker/internal/source"
	"coin-tracker/internal/storage"
	"coin-tracker/internal/tracker"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSource() *source.CoinGecko {
	return source.NewCoinGecko(source.CoinGeckoOptions{
		BaseURL:       a.Config.CoinGecko.BaseURL,
		VsCurrency:    a.Config.CoinGecko.VsCurrency,
		Timeout:       a.Config.CoinGecko.RequestTimeout,
		UserAgent:     a.Config.CoinGecko.UserAgent,
		MaxRetries:    a.Config.CoinGecko.MaxRetries,
		RetryInterval: a.Config.CoinGecko.RetryInterval,
	}, a.Logger)
}

func (a *App) newTracker(store *storage.Store) *tracker.Tracker {
	return tracker.New(a.newSource(), store, store, a.Logger)
}

// openStore connects to the database and ensures the schema exists.
func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errors.New("database.dsn not configured")
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, store.Close, nil
}

// TrackOptions configure the track command.
type TrackOptions struct {
	Query     string
	Choice    int
	ChoiceSet bool
	Limit     int
}

// SearchOptions configure the search command.
type SearchOptions struct {
	Query string
	Limit int
}

// UntrackOptions configure the untrack command.
type UntrackOptions struct {
	CoinID      string
	PurgePrices bool
}

// RecordOptions configure the record command.
type RecordOptions struct {
	CoinID string
}

// ReportOptions configure the stats and trend commands.
type ReportOptions struct {
	CoinID string
	Limit  int
}

// ExportOptions hold parameters for exporting price history.
type ExportOptions struct {
	CoinID    string
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}
