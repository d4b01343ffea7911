package catalog

import (
	"context"
	"errors"
	"testing"
)

type stubCatalogSource struct {
	entries []Entry
	err     error
	calls   int
}

func (s *stubCatalogSource) Catalog(ctx context.Context) ([]Entry, error) {
	s.calls++
	return s.entries, s.err
}

func testCatalog() []Entry {
	return []Entry{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "litecoin", Symbol: "ltc", Name: "Litecoin"},
		{ID: "spam-coin-peg", Symbol: "spam.x", Name: "SpamCoin"},
		{ID: "wbtc", Symbol: "wbtc", Name: "Wrapped Bitcoin"},
		{ID: "longcoin", Symbol: "averylongsymbol", Name: "Longcoin"},
		{ID: "nameless", Symbol: "nls", Name: ""},
	}
}

func TestSearchPriorityHitSkipsSource(t *testing.T) {
	src := &stubCatalogSource{entries: testCatalog()}

	matches, err := Search(context.Background(), src, "BTC", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "bitcoin" {
		t.Fatalf("expected single bitcoin match, got %#v", matches)
	}
	if src.calls != 0 {
		t.Fatalf("priority hit must not query the source, got %d calls", src.calls)
	}
}

func TestSearchFallbackMatchesSymbolIDAndName(t *testing.T) {
	src := &stubCatalogSource{entries: testCatalog()}

	for _, query := range []string{"ltc", "litecoin", "Litecoin"} {
		matches, err := Search(context.Background(), src, query, 10)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if len(matches) != 1 || matches[0].ID != "litecoin" {
			t.Fatalf("query %q: expected litecoin, got %#v", query, matches)
		}
	}
}

func TestSearchFiltersDottedSymbols(t *testing.T) {
	src := &stubCatalogSource{entries: testCatalog()}

	for _, query := range []string{"spam.x", "spamcoin", "spam-coin-peg"} {
		matches, err := Search(context.Background(), src, query, 10)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if len(matches) != 0 {
			t.Fatalf("query %q: dotted symbol must never surface, got %#v", query, matches)
		}
	}
}

func TestSearchFiltersWrappedNamesEvenOnExactID(t *testing.T) {
	src := &stubCatalogSource{entries: testCatalog()}

	matches, err := Search(context.Background(), src, "wbtc", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("wrapped listing must be excluded, got %#v", matches)
	}
}

func TestSearchFiltersLongAndIncompleteEntries(t *testing.T) {
	src := &stubCatalogSource{entries: testCatalog()}

	if matches, _ := Search(context.Background(), src, "longcoin", 10); len(matches) != 0 {
		t.Fatalf("symbols longer than 10 chars must be excluded, got %#v", matches)
	}
	if matches, _ := Search(context.Background(), src, "nls", 10); len(matches) != 0 {
		t.Fatalf("entries missing a field must be excluded, got %#v", matches)
	}
}

func TestSearchStopsAtLimit(t *testing.T) {
	entries := []Entry{
		{ID: "alpha-1", Symbol: "alp", Name: "Alpha One"},
		{ID: "alpha-2", Symbol: "alp", Name: "Alpha Two"},
		{ID: "alpha-3", Symbol: "alp", Name: "Alpha Three"},
	}
	src := &stubCatalogSource{entries: entries}

	matches, err := Search(context.Background(), src, "alp", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches at limit, got %d", len(matches))
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	src := &stubCatalogSource{entries: testCatalog()}

	matches, err := Search(context.Background(), src, "no-such-coin", 10)
	if err != nil {
		t.Fatalf("no matches should not be an error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %#v", matches)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	if _, err := Search(context.Background(), &stubCatalogSource{}, "   ", 10); err == nil {
		t.Fatal("blank query should be rejected")
	}
}

func TestSearchPropagatesSourceError(t *testing.T) {
	sentinel := errors.New("provider down")
	src := &stubCatalogSource{err: sentinel}

	if _, err := Search(context.Background(), src, "obscurecoin", 10); !errors.Is(err, sentinel) {
		t.Fatalf("source errors must propagate, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	matches := []Entry{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}

	if _, err := Select(matches, 0); !errors.Is(err, ErrSelectionCancelled) {
		t.Fatalf("choice 0 should cancel, got %v", err)
	}
	if _, err := Select(matches, 3); !errors.Is(err, ErrSelectionOutOfRange) {
		t.Fatalf("choice past the list should be out of range, got %v", err)
	}
	if _, err := Select(matches, -1); !errors.Is(err, ErrSelectionOutOfRange) {
		t.Fatalf("negative choice should be out of range, got %v", err)
	}

	entry, err := Select(matches, 2)
	if err != nil {
		t.Fatalf("valid choice failed: %v", err)
	}
	if entry.ID != "ethereum" {
		t.Fatalf("expected ethereum, got %s", entry.ID)
	}
}

func TestIsPriority(t *testing.T) {
	if !IsPriority(Entry{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}) {
		t.Fatal("bitcoin should be a priority entry")
	}
	if IsPriority(Entry{ID: "litecoin", Symbol: "ltc", Name: "Litecoin"}) {
		t.Fatal("litecoin should not be a priority entry")
	}
}
