package services

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// Window is one bounded candle request, times in unix milliseconds. End is inclusive.
type Window struct {
	Start int64
	End   int64
}

// HistoryWindows splits [startTime, endTime) into windows of at most limit
// candles, newest first. The oldest window is clipped to startTime.
func HistoryWindows(startTime int64, endTime int64, interval models.Interval, limit int) []Window {
	step := interval.Duration().Milliseconds()
	if step <= 0 || limit <= 0 || endTime <= startTime {
		return nil
	}

	span := step * int64(limit)
	count := helpers.CeilDiv(endTime-startTime, span)

	windows := make([]Window, 0, count)
	for i := int64(0); i < count; i++ {
		end := endTime - i*span
		start := end - span
		if start < startTime {
			start = startTime
		}
		windows = append(windows, Window{Start: start, End: end - 1})
	}
	return windows
}

// LoadHistory assembles the candles of symbol from startTime until now and
// replaces the history with them, ordered by open time. Every window gets the
// window retry policy; a window that still fails is only logged and its points
// are missing from the result.
func (rc *RefreshCoordinator) LoadHistory(symbol string, startTime time.Time, interval models.Interval) *Task {
	return rc.launch("loadHistory", func(ctx context.Context) {
		points := rc.assembleHistory(ctx, symbol, startTime, interval)
		if ctx.Err() != nil {
			return
		}
		rc.history.Replace(points)
	})
}

func (rc *RefreshCoordinator) assembleHistory(ctx context.Context, symbol string, startTime time.Time, interval models.Interval) []models.CandlePoint {
	pairInfo := models.NewPairInfo(symbol, rc.quoteAsset)
	endTime := rc.now().Truncate(time.Second)

	windows := HistoryWindows(startTime.UnixMilli(), endTime.UnixMilli(), interval, rc.candleService.MaxPoints())
	fields := log.Fields{
		"symbol":   pairInfo.Symbol,
		"pair":     pairInfo.Pair,
		"interval": interval.String(),
		"windows":  len(windows),
	}
	rc.logger.WithFields(fields).Debugln("assembling history")

	byOpenTime := make(map[int64]models.CandlePoint)
	for _, window := range windows {
		if ctx.Err() != nil {
			break
		}

		windowFields := log.Fields{"pair": pairInfo.Pair, "start": window.Start, "end": window.End}
		var points []models.CandlePoint
		err := rc.retry(ctx, rc.windowPolicy, "loadHistoryWindow", windowFields, func(ctx context.Context) error {
			fetched, err := rc.candleService.FetchRange(ctx, pairInfo.Pair, window.Start, window.End, interval)
			if err != nil {
				return err
			}
			points = fetched
			return nil
		})
		if err != nil {
			rc.logger.WithFields(windowFields).Warnln("Error fetching history window: " + err.Error())
			continue
		}

		for _, point := range points {
			byOpenTime[point.OpenTime] = pairInfo.Apply(point)
		}
	}

	history := make([]models.CandlePoint, 0, len(byOpenTime))
	for _, point := range byOpenTime {
		history = append(history, point)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].OpenTime < history[j].OpenTime
	})
	return history
}
