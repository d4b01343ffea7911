package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
	// ErrNotTracked indicates the coin is not in the tracked set.
	ErrNotTracked = errors.New("storage: coin not tracked")
)

const (
	createTrackedCoinsSQL = `CREATE TABLE IF NOT EXISTS tracked_coins (
        coin_id    TEXT PRIMARY KEY,
        symbol     TEXT NOT NULL,
        name       TEXT NOT NULL,
        is_active  BOOLEAN NOT NULL DEFAULT TRUE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	createCoinPricesSQL = `CREATE TABLE IF NOT EXISTS coin_prices (
        id      BIGSERIAL PRIMARY KEY,
        coin_id TEXT NOT NULL,
        price   NUMERIC NOT NULL,
        ts      TIMESTAMPTZ NOT NULL
    );`

	createPriceIndexSQL = `CREATE INDEX IF NOT EXISTS coin_prices_coin_ts_idx
        ON coin_prices (coin_id, ts DESC);`

	insertTrackedCoinSQL = `INSERT INTO tracked_coins (
        coin_id,
        symbol,
        name,
        is_active
    ) VALUES (
        $1,$2,$3,$4
    )
    RETURNING coin_id, symbol, name, is_active, created_at;`

	listTrackedCoinsSQL = `SELECT
        coin_id,
        symbol,
        name,
        is_active,
        created_at
    FROM tracked_coins
    ORDER BY name;`

	trackedCoinExistsSQL = `SELECT EXISTS(SELECT 1 FROM tracked_coins WHERE coin_id = $1);`

	deleteTrackedCoinSQL = `DELETE FROM tracked_coins WHERE coin_id = $1;`

	deleteCoinPricesSQL = `DELETE FROM coin_prices WHERE coin_id = $1;`

	insertPriceSQL = `INSERT INTO coin_prices (
        coin_id,
        price,
        ts
    ) VALUES (
        $1,$2,$3
    )
    RETURNING coin_id, price, ts;`

	recentPricesSQL = `SELECT
        coin_id,
        price,
        ts
    FROM coin_prices
    WHERE coin_id = $1
    ORDER BY ts DESC
    LIMIT $2;`

	pricesBetweenSQL = `SELECT
        coin_id,
        price,
        ts
    FROM coin_prices
    WHERE coin_id = $1
      AND ts >= $2
      AND ts < $3
    ORDER BY ts;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// PriceStore persists and serves price snapshots. RecentPrices returns
// newest-first, at most limit rows.
type PriceStore interface {
	SavePrice(ctx context.Context, coinID string, price float64, ts time.Time) (PriceObservation, error)
	RecentPrices(ctx context.Context, coinID string, limit int) ([]PriceObservation, error)
	PricesBetween(ctx context.Context, coinID string, from, to time.Time) ([]PriceObservation, error)
}

// TrackedCoinStore manages the set of monitored coins.
type TrackedCoinStore interface {
	AddTracked(ctx context.Context, coin TrackedCoin) (TrackedCoin, error)
	ListTracked(ctx context.Context) ([]TrackedCoin, error)
	DeleteTracked(ctx context.Context, coinID string, purgePrices bool) (int64, error)
	IsTracked(ctx context.Context, coinID string) (bool, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to tracked coins and price snapshots.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	for _, stmt := range []string{createTrackedCoinsSQL, createCoinPricesSQL, createPriceIndexSQL} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key) // best effort
		conn.Release()
	}
	return unlock, true, nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// AddTracked persists a newly tracked coin.
func (s *Store) AddTracked(ctx context.Context, coin TrackedCoin) (TrackedCoin, error) {
	pool, err := s.getPool()
	if err != nil {
		return TrackedCoin{}, err
	}

	row := pool.QueryRow(ctx, insertTrackedCoinSQL, coin.CoinID, coin.Symbol, coin.Name, coin.Active)

	var saved TrackedCoin
	if err := row.Scan(&saved.CoinID, &saved.Symbol, &saved.Name, &saved.Active, &saved.CreatedAt); err != nil {
		return TrackedCoin{}, fmt.Errorf("insert tracked coin: %w", err)
	}
	return saved, nil
}

// ListTracked returns all tracked coins ordered by name.
func (s *Store) ListTracked(ctx context.Context) ([]TrackedCoin, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listTrackedCoinsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list tracked coins: %w", queryErr)
	}
	defer rows.Close()

	coins := make([]TrackedCoin, 0)
	for rows.Next() {
		var coin TrackedCoin
		if err := rows.Scan(&coin.CoinID, &coin.Symbol, &coin.Name, &coin.Active, &coin.CreatedAt); err != nil {
			return nil, err
		}
		coins = append(coins, coin)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return coins, nil
}

// IsTracked reports whether the coin is in the tracked set.
func (s *Store) IsTracked(ctx context.Context, coinID string) (bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return false, err
	}
	var exists bool
	if scanErr := pool.QueryRow(ctx, trackedCoinExistsSQL, coinID).Scan(&exists); scanErr != nil {
		return false, fmt.Errorf("tracked coin exists: %w", scanErr)
	}
	return exists, nil
}

// DeleteTracked removes a tracked coin, optionally purging its price history.
// It returns the number of purged price rows.
func (s *Store) DeleteTracked(ctx context.Context, coinID string, purgePrices bool) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	cmdTag, execErr := pool.Exec(ctx, deleteTrackedCoinSQL, coinID)
	if execErr != nil {
		return 0, fmt.Errorf("delete tracked coin: %w", execErr)
	}
	if cmdTag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotTracked, coinID)
	}

	if !purgePrices {
		return 0, nil
	}

	pricesTag, execErr := pool.Exec(ctx, deleteCoinPricesSQL, coinID)
	if execErr != nil {
		return 0, fmt.Errorf("purge coin prices: %w", execErr)
	}
	return pricesTag.RowsAffected(), nil
}

// SavePrice persists a single price snapshot and returns the stored observation.
func (s *Store) SavePrice(ctx context.Context, coinID string, price float64, ts time.Time) (PriceObservation, error) {
	pool, err := s.getPool()
	if err != nil {
		return PriceObservation{}, err
	}

	row := pool.QueryRow(ctx, insertPriceSQL, coinID, decimal.NewFromFloat(price).String(), ts)
	return scanObservation(row)
}

// RecentPrices returns the most recent snapshots for a coin, newest first.
func (s *Store) RecentPrices(ctx context.Context, coinID string, limit int) ([]PriceObservation, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, recentPricesSQL, coinID, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("recent prices: %w", queryErr)
	}
	defer rows.Close()

	return collectObservations(rows, limit)
}

// PricesBetween returns snapshots within [from, to), oldest first.
func (s *Store) PricesBetween(ctx context.Context, coinID string, from, to time.Time) ([]PriceObservation, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, pricesBetweenSQL, coinID, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("prices between: %w", queryErr)
	}
	defer rows.Close()

	return collectObservations(rows, 0)
}

func collectObservations(rows pgx.Rows, capacity int) ([]PriceObservation, error) {
	observations := make([]PriceObservation, 0, capacity)
	for rows.Next() {
		obs, scanErr := scanObservation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		observations = append(observations, obs)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return observations, nil
}

func scanObservation(row pgx.Row) (PriceObservation, error) {
	var (
		coinID   string
		priceStr string
		ts       time.Time
	)
	if err := row.Scan(&coinID, &priceStr, &ts); err != nil {
		return PriceObservation{}, fmt.Errorf("scan price observation: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return PriceObservation{}, fmt.Errorf("parse price: %w", err)
	}

	return PriceObservation{
		CoinID:    coinID,
		Price:     price.InexactFloat64(),
		Timestamp: ts,
	}, nil
}

var (
	_ PriceStore       = (*Store)(nil)
	_ TrackedCoinStore = (*Store)(nil)
	_ AdvisoryLocker   = (*Store)(nil)
)
