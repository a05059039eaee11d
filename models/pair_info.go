package models

import "strings"

// StablePrice is the flat price reported for the quote asset itself.
const StablePrice = "1.0"

// PairInfo maps a coin symbol to the exchange pair its candles are read from.
type PairInfo struct {
	Symbol string
	Quote  string
	Pair   string
	// Stable is set when the symbol is the quote asset. The exchange lists no
	// QUOTE/QUOTE pair so a reference pair is fetched and its prices are flattened.
	Stable bool
}

func NewPairInfo(symbol string, quote string) *PairInfo {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	quote = strings.ToUpper(strings.TrimSpace(quote))

	if symbol == quote {
		return &PairInfo{
			Symbol: symbol,
			Quote:  quote,
			Pair:   "BTC" + quote,
			Stable: true,
		}
	}
	return &PairInfo{
		Symbol: symbol,
		Quote:  quote,
		Pair:   symbol + quote,
	}
}

// Apply flattens OHLC values for stable pairs and leaves other points untouched.
func (p *PairInfo) Apply(point CandlePoint) CandlePoint {
	if !p.Stable {
		return point
	}
	point.Open = StablePrice
	point.High = StablePrice
	point.Low = StablePrice
	point.Close = StablePrice
	return point
}
