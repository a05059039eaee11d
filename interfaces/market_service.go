package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// MarketService is the market listing source. Implementations do not retry.
type MarketService interface {
	FetchPage(ctx context.Context, page int) ([]models.Coin, error)
	FetchByNames(ctx context.Context, names []string) ([]models.Coin, error)
	FetchByIds(ctx context.Context, ids []string) ([]models.Coin, error)
	Search(ctx context.Context, query string) ([]models.SearchHit, error)
}

// MoversService scrapes the gainers/losers tables. Returned coins have no ID
// and no LastUpdated.
type MoversService interface {
	FetchGainersLosers(ctx context.Context) (gainers []models.Coin, losers []models.Coin, err error)
}

// SavedStore keeps the coins a user saved, keyed by coin ID.
type SavedStore interface {
	Insert(ctx context.Context, coin models.Coin) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]models.Coin, error)
}
