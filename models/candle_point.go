package models

import "time"

// CandlePoint is one OHLC row. Prices stay strings to keep the exchange precision.
type CandlePoint struct {
	OpenTime  int64  `json:"openTime"`
	Open      string `json:"open"`
	High      string `json:"high"`
	Low       string `json:"low"`
	Close     string `json:"close"`
	CloseTime int64  `json:"closeTime"`
}

func (p CandlePoint) OpenedAt() time.Time {
	return time.UnixMilli(p.OpenTime).UTC()
}

func (p CandlePoint) ClosedAt() time.Time {
	return time.UnixMilli(p.CloseTime).UTC()
}
