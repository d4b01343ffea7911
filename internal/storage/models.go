package storage

import "time"

// PriceObservation is a single immutable price snapshot for one coin.
type PriceObservation struct {
	CoinID    string
	Price     float64
	Timestamp time.Time
}

// TrackedCoin identifies a coin the user is monitoring.
type TrackedCoin struct {
	CoinID    string
	Symbol    string
	Name      string
	Active    bool
	CreatedAt time.Time
}
