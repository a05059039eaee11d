package binance

import (
	"context"
	"fmt"
	"strings"

	"github.com/adshao/go-binance/v2"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

const DefaultKlineLimit = 1000

type BinanceService struct {
	binanceClient *binance.Client
	limit         int
}

type Option func(*BinanceService)

func WithBaseURL(baseURL string) Option {
	return func(binanceService *BinanceService) {
		binanceService.binanceClient.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithKlineLimit sets the rows requested per call. The exchange caps it at 1000.
func WithKlineLimit(limit int) Option {
	return func(binanceService *BinanceService) {
		if limit > 0 && limit <= DefaultKlineLimit {
			binanceService.limit = limit
		}
	}
}

// NewBinanceService builds a client for public market data; no API key is needed for klines.
func NewBinanceService(opts ...Option) *BinanceService {
	binanceService := &BinanceService{
		binanceClient: binance.NewClient("", ""),
		limit:         DefaultKlineLimit,
	}
	for _, opt := range opts {
		opt(binanceService)
	}
	return binanceService
}

func (binanceService *BinanceService) MaxPoints() int {
	return binanceService.limit
}

// FetchRange returns klines of pair whose open time is within [startTime, endTime],
// both in epoch milliseconds, oldest first.
func (binanceService *BinanceService) FetchRange(ctx context.Context, pair string, startTime int64, endTime int64,
	interval models.Interval) ([]models.CandlePoint, error) {

	klines, err := binanceService.binanceClient.NewKlinesService().
		Symbol(pair).
		Interval(interval.String()).
		StartTime(startTime).
		EndTime(endTime).
		Limit(binanceService.limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting klines for %s: %w", pair, err)
	}

	points := make([]models.CandlePoint, 0, len(klines))
	for _, k := range klines {
		points = append(points, klineToCandlePoint(k))
	}
	return points, nil
}

func klineToCandlePoint(k *binance.Kline) models.CandlePoint {
	return models.CandlePoint{
		OpenTime:  k.OpenTime,
		Open:      k.Open,
		High:      k.High,
		Low:       k.Low,
		Close:     k.Close,
		CloseTime: k.CloseTime,
	}
}
