package helpers

import (
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

// StringIntervalToDuration parses kline style intervals ("1m", "1h", "1d")
// as well as plain durations ("90s", "2h30m").
func StringIntervalToDuration(interval string) (time.Duration, error) {
	return str2duration.ParseDuration(strings.TrimSpace(interval))
}

// UniqueStrings drops empty and repeated values, keeping first occurrences in order.
func UniqueStrings(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	var unique []string
	for _, item := range list {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// CeilDiv divides rounding up. b must be positive.
func CeilDiv(a int64, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// SubstringBeforeLast returns s up to the last occurrence of sep, or s when
// sep is absent.
func SubstringBeforeLast(s string, sep string) string {
	if sep == "" {
		return s
	}
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// NormalizeSpace collapses runs of whitespace into single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
