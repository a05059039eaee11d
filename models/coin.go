package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coin is a market snapshot of a single cryptocurrency. ID is empty for rows
// scraped from the gainers/losers page until a name lookup backfills it.
type Coin struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Symbol                   string          `json:"symbol"`
	Image                    string          `json:"image"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	PriceChangePercentage24h decimal.Decimal `json:"price_change_percentage_24h"`
	LastUpdated              string          `json:"last_updated"`
}

// Key returns the identity used when merging coins into a collection.
// Coins without an ID fall back to symbol and name.
func (c Coin) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return strings.ToLower(c.Symbol) + "|" + c.Name
}

// SearchHit is one entry of a free-text search. It carries no market fields.
type SearchHit struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SearchResult mirrors the body of the search endpoint.
type SearchResult struct {
	Coins []SearchHit `json:"coins"`
}

func (r SearchResult) IDs() []string {
	ids := make([]string, 0, len(r.Coins))
	for _, hit := range r.Coins {
		if hit.ID != "" {
			ids = append(ids, hit.ID)
		}
	}
	return ids
}
