package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

func klineRow(openTime int64) string {
	return fmt.Sprintf(`[%d,"42000.10","42100.00","41900.00","42050.55","12.5",%d,"525000.0",100,"6.1","256000.0","0"]`,
		openTime, openTime+59_999)
}

func TestFetchRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ETHUSDT", q.Get("symbol"))
		assert.Equal(t, "1m", q.Get("interval"))
		assert.Equal(t, "1704067200000", q.Get("startTime"))
		assert.Equal(t, "1704067320000", q.Get("endTime"))
		assert.Equal(t, "500", q.Get("limit"))

		rows := []string{klineRow(1704067200000), klineRow(1704067260000), klineRow(1704067320000)}
		_, _ = w.Write([]byte("[" + strings.Join(rows, ",") + "]"))
	}))
	defer server.Close()

	service := NewBinanceService(WithBaseURL(server.URL), WithKlineLimit(500))
	assert.Equal(t, 500, service.MaxPoints())

	points, err := service.FetchRange(context.Background(), "ETHUSDT", 1704067200000, 1704067320000, models.IntervalMinute)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, models.CandlePoint{
		OpenTime:  1704067200000,
		Open:      "42000.10",
		High:      "42100.00",
		Low:       "41900.00",
		Close:     "42050.55",
		CloseTime: 1704067259999,
	}, points[0])
}

func TestFetchRangeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	service := NewBinanceService(WithBaseURL(server.URL))
	_, err := service.FetchRange(context.Background(), "NOPEUSDT", 0, 1, models.IntervalHour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPEUSDT")
}

func TestKlineLimitIsCapped(t *testing.T) {
	assert.Equal(t, DefaultKlineLimit, NewBinanceService(WithKlineLimit(5000)).MaxPoints())
	assert.Equal(t, DefaultKlineLimit, NewBinanceService(WithKlineLimit(0)).MaxPoints())
}
