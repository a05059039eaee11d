package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

func TestHistoryWindowsNewestFirstAndClipped(t *testing.T) {
	end := fixedNow.UnixMilli()
	start := fixedNow.Add(-24 * time.Hour).UnixMilli()

	windows := HistoryWindows(start, end, models.IntervalMinute, 1000)

	require.Len(t, windows, 2)
	assert.Equal(t, Window{Start: end - 1000*60_000, End: end - 1}, windows[0])
	assert.Equal(t, Window{Start: start, End: end - 1000*60_000 - 1}, windows[1])
}

func TestHistoryWindowsEmptyRange(t *testing.T) {
	end := fixedNow.UnixMilli()

	assert.Empty(t, HistoryWindows(end, end, models.IntervalMinute, 1000))
	assert.Empty(t, HistoryWindows(end, end-1, models.IntervalMinute, 1000))
	assert.Empty(t, HistoryWindows(end-60_000, end, models.IntervalMinute, 0))
}

func TestLoadHistoryCoversRangeAcrossWindows(t *testing.T) {
	f := newFixture(t)
	start := fixedNow.Add(-24 * time.Hour)

	wait(t, f.rc.LoadHistory("btc", start, models.IntervalMinute))

	points := f.rc.History().Snapshot()
	require.Len(t, points, 1440)
	assert.Equal(t, start.UnixMilli(), points[0].OpenTime)
	assert.Equal(t, fixedNow.Add(-time.Minute).UnixMilli(), points[len(points)-1].OpenTime)
	for i := 1; i < len(points); i++ {
		require.Less(t, points[i-1].OpenTime, points[i].OpenTime)
	}
	assert.Equal(t, []string{"BTCUSDT", "BTCUSDT"}, f.candle.Pairs())
}

func TestLoadHistoryDeduplicatesOverlappingWindows(t *testing.T) {
	f := newFixture(t)
	f.rc.candleService = &overlappingCandles{fakeCandleService: f.candle}

	wait(t, f.rc.LoadHistory("ETH", fixedNow.Add(-5*time.Hour), models.IntervalMinute))

	points := f.rc.History().Snapshot()
	require.Len(t, points, 300)
	seen := make(map[int64]bool)
	for _, point := range points {
		require.False(t, seen[point.OpenTime])
		seen[point.OpenTime] = true
	}
}

func TestLoadHistoryForQuoteAssetIsFlat(t *testing.T) {
	f := newFixture(t)

	wait(t, f.rc.LoadHistory("usdt", fixedNow.Add(-time.Hour), models.IntervalMinute))

	points := f.rc.History().Snapshot()
	require.Len(t, points, 60)
	for _, point := range points {
		assert.Equal(t, models.StablePrice, point.Open)
		assert.Equal(t, models.StablePrice, point.High)
		assert.Equal(t, models.StablePrice, point.Low)
		assert.Equal(t, models.StablePrice, point.Close)
	}
	assert.Equal(t, []string{"BTCUSDT"}, f.candle.Pairs())
}

func TestLoadHistoryFailedWindowLeavesGap(t *testing.T) {
	f := newFixture(t)
	newest := fixedNow.UnixMilli() - 1000*60_000
	f.candle.fail = func(start int64) bool { return start == newest }

	wait(t, f.rc.LoadHistory("BTC", fixedNow.Add(-24*time.Hour), models.IntervalMinute))

	points := f.rc.History().Snapshot()
	assert.Len(t, points, 440)
	assert.Len(t, f.candle.Pairs(), 2)
}

func TestLoadHistoryRetriesWindowsWithWindowPolicy(t *testing.T) {
	f := newFixture(t, WithWindowRetryPolicy(NewRetryPolicy(3, time.Millisecond)))
	f.candle.fail = func(int64) bool { return true }

	wait(t, f.rc.LoadHistory("BTC", fixedNow.Add(-time.Hour), models.IntervalMinute))

	assert.Len(t, f.candle.Pairs(), 3)
	assert.Zero(t, f.rc.History().Len())
}

func TestRefreshDetailReloadsEverything(t *testing.T) {
	f := newFixture(t)
	f.market.fetchPage = func(ctx context.Context, page int) ([]models.Coin, error) {
		return pageOf(page), nil
	}
	f.rc.history.Replace([]models.CandlePoint{{OpenTime: 1}})

	wait(t, f.rc.RefreshDetail("BTC"))

	assert.Equal(t, 3, f.rc.Listing().Len())
	assert.Len(t, f.rc.History().Snapshot(), 1440)
	assert.Equal(t, fixedNow.Add(-24*time.Hour).UnixMilli(), f.rc.History().Snapshot()[0].OpenTime)
}

// overlappingCandles widens every request by five intervals on both sides
// while announcing windows of 100 points.
type overlappingCandles struct {
	*fakeCandleService
}

func (o *overlappingCandles) MaxPoints() int {
	return 100
}

func (o *overlappingCandles) FetchRange(ctx context.Context, pair string, startTime int64, endTime int64,
	interval models.Interval) ([]models.CandlePoint, error) {

	step := interval.Duration().Milliseconds()
	points, err := o.fakeCandleService.FetchRange(ctx, pair, startTime-5*step, endTime+5*step, interval)
	if err != nil {
		return nil, err
	}
	var inRange []models.CandlePoint
	for _, point := range points {
		if point.OpenTime >= fixedNow.Add(-5*time.Hour).UnixMilli() && point.OpenTime < fixedNow.UnixMilli() {
			inRange = append(inRange, point)
		}
	}
	return inRange, nil
}
