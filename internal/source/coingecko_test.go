package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestClient(baseURL string) *CoinGecko {
	return NewCoinGecko(CoinGeckoOptions{
		BaseURL:       baseURL,
		VsCurrency:    "usd",
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
	}, noopLogger())
}

func TestCurrentPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != simplePricePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin" {
			t.Errorf("expected ids=bitcoin, got %q", got)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("expected vs_currencies=usd, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":65000.5}}`))
	}))
	defer server.Close()

	price, err := newTestClient(server.URL).CurrentPrice(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 65000.5 {
		t.Fatalf("expected 65000.5, got %v", price)
	}
}

func TestCurrentPriceMissingCoin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentPrice(context.Background(), "no-such-coin")
	if !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}

func TestCurrentPriceRetriesServerErrors(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentPrice(context.Background(), "bitcoin")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	// initial attempt plus MaxRetries
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestCurrentPriceRecoversFromRateLimit(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"bitcoin":{"usd":42000}}`))
	}))
	defer server.Close()

	price, err := newTestClient(server.URL).CurrentPrice(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if price != 42000 {
		t.Fatalf("expected 42000, got %v", price)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestClientErrorsFailFast(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentPrice(context.Background(), "bitcoin")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", attempts)
	}
}

func TestCurrentPriceRejectsBlankCoinID(t *testing.T) {
	if _, err := newTestClient("http://unused").CurrentPrice(context.Background(), "  "); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != coinsListPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},{"id":"ethereum","symbol":"eth","name":"Ethereum"}]`))
	}))
	defer server.Close()

	entries, err := newTestClient(server.URL).Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "bitcoin" || entries[0].Symbol != "btc" || entries[0].Name != "Bitcoin" {
		t.Fatalf("unexpected first entry: %#v", entries[0])
	}
}

func TestCatalogDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Catalog(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
