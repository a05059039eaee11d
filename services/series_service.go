package services

import (
	"errors"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// DefaultSMAWindow is the number of closes averaged by Summarize.
const DefaultSMAWindow = 20

var ErrEmptyHistory = errors.New("history has no points")

// HistorySummary describes an assembled history as shown next to the chart.
type HistorySummary struct {
	Points    int
	From      time.Time
	To        time.Time
	LastClose big.Decimal
	High      big.Decimal
	Low       big.Decimal
	ChangePct big.Decimal
	SMA       big.Decimal
	SMAWindow int
}

// ToTimeSeries converts candle points into a techan time series. Points must
// be ordered by open time; out of order points are dropped by the series.
func ToTimeSeries(points []models.CandlePoint, interval models.Interval) *techan.TimeSeries {
	timeSeries := techan.NewTimeSeries()
	for _, point := range points {
		period := techan.NewTimePeriod(point.OpenedAt(), interval.Duration())
		candle := techan.NewCandle(period)
		candle.OpenPrice = big.NewFromString(point.Open)
		candle.ClosePrice = big.NewFromString(point.Close)
		candle.MaxPrice = big.NewFromString(point.High)
		candle.MinPrice = big.NewFromString(point.Low)
		timeSeries.AddCandle(candle)
	}
	return timeSeries
}

// Summarize computes the window change, the extremes and a simple moving
// average of the closes. The average window shrinks to the series length.
func Summarize(points []models.CandlePoint, interval models.Interval, smaWindow int) (HistorySummary, error) {
	timeSeries := ToTimeSeries(points, interval)
	if len(timeSeries.Candles) == 0 {
		return HistorySummary{}, ErrEmptyHistory
	}

	if smaWindow <= 0 {
		smaWindow = DefaultSMAWindow
	}
	if smaWindow > len(timeSeries.Candles) {
		smaWindow = len(timeSeries.Candles)
	}

	first := timeSeries.Candles[0]
	last := timeSeries.LastCandle()

	high := first.MaxPrice
	low := first.MinPrice
	for _, candle := range timeSeries.Candles {
		if candle.MaxPrice.GT(high) {
			high = candle.MaxPrice
		}
		if candle.MinPrice.LT(low) {
			low = candle.MinPrice
		}
	}

	changePct := big.ZERO
	if !first.OpenPrice.IsZero() {
		changePct = last.ClosePrice.Sub(first.OpenPrice).Div(first.OpenPrice).Mul(big.NewDecimal(100))
	}

	closePrices := techan.NewClosePriceIndicator(timeSeries)
	sma := techan.NewSimpleMovingAverage(closePrices, smaWindow)

	return HistorySummary{
		Points:    len(timeSeries.Candles),
		From:      first.Period.Start,
		To:        last.Period.End,
		LastClose: last.ClosePrice,
		High:      high,
		Low:       low,
		ChangePct: changePct,
		SMA:       sma.Calculate(timeSeries.LastIndex()),
		SMAWindow: smaWindow,
	}, nil
}
