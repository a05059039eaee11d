package database

import "time"

// SavedCoin is a coin saved by the user. Prices are stored as strings, as the
// exchange returns them, to keep their precision on every driver.
type SavedCoin struct {
	CoinID                   string `json:"id" gorm:"column:coin_id;primaryKey;size:200"`
	Name                     string `json:"name" gorm:"size:200"`
	Symbol                   string `json:"symbol" gorm:"size:50"`
	Image                    string `json:"image" gorm:"size:500"`
	CurrentPrice             string `json:"currentPrice" gorm:"size:64"`
	PriceChangePercentage24h string `json:"priceChangePercentage24h" gorm:"column:price_change_percentage_24h;size:64"`
	LastUpdated              string `json:"lastUpdated" gorm:"size:64"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
