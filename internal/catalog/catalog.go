// Package catalog resolves free-text queries to coin identities from the
// provider catalog, with a local priority table for major coins.
package catalog

import (
	"context"
	"errors"
	"strings"
)

// DefaultLimit caps fallback search results when the caller does not choose one.
const DefaultLimit = 10

// Entry identifies a coin in the provider catalog.
type Entry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// CatalogSource is the slice of the price source that Search needs.
type CatalogSource interface {
	Catalog(ctx context.Context) ([]Entry, error)
}

// priority maps queries (id or symbol) straight to a catalog entry so major
// coins never need a network round trip. Built once, never mutated.
var priority = buildPriorityTable(
	Entry{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
	Entry{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	Entry{ID: "solana", Symbol: "sol", Name: "Solana"},
	Entry{ID: "ripple", Symbol: "xrp", Name: "Ripple"},
	Entry{ID: "cardano", Symbol: "ada", Name: "Cardano"},
	Entry{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"},
	Entry{ID: "binancecoin", Symbol: "bnb", Name: "Binance Coin"},
)

func buildPriorityTable(entries ...Entry) map[string]Entry {
	table := make(map[string]Entry, 2*len(entries))
	for _, entry := range entries {
		table[entry.ID] = entry
		table[entry.Symbol] = entry
	}
	return table
}

// blockedNameParts exclude wrapped, pegged, and derivative listings from
// fallback results.
var blockedNameParts = []string{"-peg", "wrapped", "token", "staked"}

// Search resolves a free-text query to catalog entries. A priority-table hit
// returns that single entry without touching the source; otherwise the full
// provider catalog is scanned with quality filters. An empty result is not
// an error.
func Search(ctx context.Context, src CatalogSource, query string, limit int) ([]Entry, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("catalog: search query is empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if entry, ok := priority[query]; ok {
		return []Entry{entry}, nil
	}

	all, err := src.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]Entry, 0, limit)
	for _, coin := range all {
		symbol := strings.ToLower(coin.Symbol)
		id := strings.ToLower(coin.ID)
		name := strings.ToLower(coin.Name)

		if symbol == "" || id == "" || name == "" {
			continue
		}
		if strings.Contains(symbol, ".") || len(symbol) > 10 {
			continue
		}
		if containsBlockedPart(name) {
			continue
		}

		if query == symbol || query == id || query == name {
			matches = append(matches, coin)
			if len(matches) >= limit {
				break
			}
		}
	}

	return matches, nil
}

func containsBlockedPart(name string) bool {
	for _, part := range blockedNameParts {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}

// IsPriority reports whether the entry came from the priority table.
func IsPriority(entry Entry) bool {
	known, ok := priority[entry.ID]
	return ok && known == entry
}
