package models

import (
	"fmt"
	"time"

	"gitlab.com/aoterocom/AOCryptomarket/helpers"
)

// Interval is a kline interval accepted by the candle source.
type Interval string

const (
	IntervalMinute Interval = "1m"
	IntervalHour   Interval = "1h"
	IntervalDay    Interval = "1d"
)

var intervals = []Interval{IntervalMinute, IntervalHour, IntervalDay}

func ParseInterval(s string) (Interval, error) {
	for _, interval := range intervals {
		if string(interval) == s {
			return interval, nil
		}
	}
	return "", fmt.Errorf("unsupported interval %q, expected one of %v", s, intervals)
}

// Duration is the length of one candle.
func (i Interval) Duration() time.Duration {
	d, err := helpers.StringIntervalToDuration(string(i))
	if err != nil {
		return 0
	}
	return d
}

func (i Interval) String() string {
	return string(i)
}
