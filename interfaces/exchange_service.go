package interfaces

import (
	"context"

	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// CandleService reads OHLC rows for a trading pair. A single call returns at
// most MaxPoints rows; longer ranges have to be split by the caller.
type CandleService interface {
	FetchRange(ctx context.Context, pair string, startTime int64, endTime int64, interval models.Interval) ([]models.CandlePoint, error)
	MaxPoints() int
}
