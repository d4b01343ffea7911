package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"coin-tracker/internal/catalog"
	"coin-tracker/internal/storage"
)

type stubSource struct {
	prices  map[string]float64
	failFor map[string]error
	calls   int
}

func (s *stubSource) CurrentPrice(ctx context.Context, coinID string) (float64, error) {
	s.calls++
	if err, ok := s.failFor[coinID]; ok {
		return 0, err
	}
	price, ok := s.prices[coinID]
	if !ok {
		return 0, fmt.Errorf("no stub price for %s", coinID)
	}
	return price, nil
}

func (s *stubSource) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	return nil, nil
}

// memoryStore implements both store interfaces in memory.
type memoryStore struct {
	coins []storage.TrackedCoin
	saved []storage.PriceObservation
}

func (m *memoryStore) AddTracked(ctx context.Context, coin storage.TrackedCoin) (storage.TrackedCoin, error) {
	coin.CreatedAt = time.Now().UTC()
	m.coins = append(m.coins, coin)
	return coin, nil
}

func (m *memoryStore) ListTracked(ctx context.Context) ([]storage.TrackedCoin, error) {
	return m.coins, nil
}

func (m *memoryStore) DeleteTracked(ctx context.Context, coinID string, purgePrices bool) (int64, error) {
	for i, coin := range m.coins {
		if coin.CoinID == coinID {
			m.coins = append(m.coins[:i], m.coins[i+1:]...)
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", storage.ErrNotTracked, coinID)
}

func (m *memoryStore) IsTracked(ctx context.Context, coinID string) (bool, error) {
	for _, coin := range m.coins {
		if coin.CoinID == coinID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) SavePrice(ctx context.Context, coinID string, price float64, ts time.Time) (storage.PriceObservation, error) {
	obs := storage.PriceObservation{CoinID: coinID, Price: price, Timestamp: ts}
	m.saved = append(m.saved, obs)
	return obs, nil
}

func (m *memoryStore) RecentPrices(ctx context.Context, coinID string, limit int) ([]storage.PriceObservation, error) {
	return nil, nil
}

func (m *memoryStore) PricesBetween(ctx context.Context, coinID string, from, to time.Time) ([]storage.PriceObservation, error) {
	return nil, nil
}

var (
	_ storage.PriceStore       = (*memoryStore)(nil)
	_ storage.TrackedCoinStore = (*memoryStore)(nil)
)

func newTestTracker(src *stubSource, store *memoryStore) *Tracker {
	return New(src, store, store, zerolog.Nop())
}

func TestRecordAllContinuesAfterFailure(t *testing.T) {
	store := &memoryStore{coins: []storage.TrackedCoin{
		{CoinID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{CoinID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{CoinID: "solana", Symbol: "sol", Name: "Solana"},
	}}
	src := &stubSource{
		prices:  map[string]float64{"bitcoin": 65000, "solana": 150},
		failFor: map[string]error{"ethereum": errors.New("api failed for ethereum")},
	}

	observations, err := newTestTracker(src, store).RecordAll(context.Background())
	if err != nil {
		t.Fatalf("one failing coin must not abort the batch: %v", err)
	}
	if len(observations) != 2 {
		t.Fatalf("expected 2 recorded snapshots, got %d", len(observations))
	}
	if src.calls != 3 {
		t.Fatalf("every tracked coin must be attempted, got %d calls", src.calls)
	}
	if observations[0].CoinID != "bitcoin" || observations[1].CoinID != "solana" {
		t.Fatalf("unexpected recorded coins: %#v", observations)
	}
}

func TestRecordAllWithoutTrackedCoins(t *testing.T) {
	observations, err := newTestTracker(&stubSource{}, &memoryStore{}).RecordAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(observations) != 0 {
		t.Fatalf("expected no snapshots, got %#v", observations)
	}
}

func TestRecordPricePersistsSnapshot(t *testing.T) {
	store := &memoryStore{}
	src := &stubSource{prices: map[string]float64{"bitcoin": 65000.5}}

	obs, err := newTestTracker(src, store).RecordPrice(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Price != 65000.5 {
		t.Fatalf("expected price 65000.5, got %v", obs.Price)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted snapshot, got %d", len(store.saved))
	}
	if store.saved[0].Timestamp.IsZero() {
		t.Fatal("snapshot timestamp should be set")
	}
}

func TestTrackRejectsDuplicates(t *testing.T) {
	store := &memoryStore{coins: []storage.TrackedCoin{{CoinID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}}}
	trk := newTestTracker(&stubSource{}, store)

	_, err := trk.Track(context.Background(), catalog.Entry{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"})
	if !errors.Is(err, ErrAlreadyTracked) {
		t.Fatalf("expected ErrAlreadyTracked, got %v", err)
	}
}

func TestTrackLowercasesSymbol(t *testing.T) {
	store := &memoryStore{}
	trk := newTestTracker(&stubSource{}, store)

	coin, err := trk.Track(context.Background(), catalog.Entry{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coin.Symbol != "btc" {
		t.Fatalf("symbol should be lowercased, got %q", coin.Symbol)
	}
	if !coin.Active {
		t.Fatal("new tracked coin should be active")
	}
}

func TestUntrackUnknownCoin(t *testing.T) {
	trk := newTestTracker(&stubSource{}, &memoryStore{})

	if _, err := trk.Untrack(context.Background(), "nope", false); !errors.Is(err, storage.ErrNotTracked) {
		t.Fatalf("expected ErrNotTracked, got %v", err)
	}
}
