package moex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retvizor/invest-backend/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.Moex{
		BaseURL:       baseURL,
		Timeout:       time.Second,
		RetryAttempts: 0,
		RetryBackoff:  time.Millisecond,
	})
}

const dailyCandlesBody = `{
	"candles": {
		"metadata": {"open": {"type": "double"}},
		"columns": ["open", "close", "high", "low", "value", "volume", "begin", "end"],
		"data": [
			[248.5, 250.1, 251.0, 247.9, 12345678.9, 50000, "2024-01-10 00:00:00", "2024-01-10 23:59:59"],
			[250.2, 255.0, 256.3, 249.8, 2345678.9, 30000, "2024-01-11 00:00:00", "2024-01-11 18:45:00"]
		]
	}
}`

func TestGetDailyCandles(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(dailyCandlesBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	from := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	candles, err := c.GetDailyCandles(context.Background(), "SBER", from)
	require.NoError(t, err)

	assert.Equal(t, "/iss/engines/stock/markets/shares/securities/SBER/candles.json", gotPath)
	assert.Equal(t, []string{"2024-01-10"}, gotQuery["from"])
	assert.Equal(t, []string{"24"}, gotQuery["interval"])

	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, "SBER", first.Ticker)
	assert.Equal(t, 248.5, first.Open)
	assert.Equal(t, 250.1, first.Close)
	assert.Equal(t, 251.0, first.High)
	assert.Equal(t, 247.9, first.Low)
	assert.Equal(t, 12345678.9, first.Value)
	assert.Equal(t, 50000.0, first.Volume)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), first.Begin)
	assert.Equal(t, time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC), first.End)

	assert.Equal(t, time.Date(2024, 1, 11, 18, 45, 0, 0, time.UTC), candles[1].End)
}

func TestGetIntradayCandles(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"candles": {"columns": ["open", "close", "high", "low", "value", "volume", "begin", "end"], "data": []}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	candles, err := c.GetIntradayCandles(context.Background(), "AFLT", day)
	require.NoError(t, err)

	assert.Empty(t, candles)
	assert.Equal(t, []string{"2024-01-10 00:00:00"}, gotQuery["from"])
	assert.Equal(t, []string{"2024-01-10 23:59:59"}, gotQuery["till"])
	assert.Equal(t, []string{"1"}, gotQuery["interval"])
}

// Column order in the ISS payload is not guaranteed; cells are matched by name.
func TestGetDailyCandlesColumnOrderIndependent(t *testing.T) {
	body := `{
		"candles": {
			"columns": ["end", "begin", "volume", "value", "low", "high", "close", "open"],
			"data": [
				["2024-01-10 23:59:59", "2024-01-10 00:00:00", 50000, 12345678.9, 247.9, 251.0, 250.1, 248.5]
			]
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	candles, err := c.GetDailyCandles(context.Background(), "SBER", time.Now())
	require.NoError(t, err)
	require.Len(t, candles, 1)

	assert.Equal(t, 248.5, candles[0].Open)
	assert.Equal(t, 250.1, candles[0].Close)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), candles[0].Begin)
}

func TestGetDailyCandlesNullCells(t *testing.T) {
	body := `{
		"candles": {
			"columns": ["open", "close", "high", "low", "value", "volume", "begin", "end"],
			"data": [
				[248.5, 250.1, null, null, null, null, "2024-01-10 00:00:00", "2024-01-10 23:59:59"]
			]
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	candles, err := c.GetDailyCandles(context.Background(), "SBER", time.Now())
	require.NoError(t, err)
	require.Len(t, candles, 1)

	assert.Equal(t, 250.1, candles[0].Close)
	assert.Zero(t, candles[0].High)
	assert.Zero(t, candles[0].Volume)
}

func TestGetDailyCandlesMissingColumn(t *testing.T) {
	body := `{
		"candles": {
			"columns": ["open", "close"],
			"data": [[248.5, 250.1]]
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.GetDailyCandles(context.Background(), "SBER", time.Now())
	assert.Error(t, err)
}

func TestGetDailyCandlesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.GetDailyCandles(context.Background(), "SBER", time.Now())
	assert.Error(t, err)
}

func TestGetDailyCandlesEmptyTicker(t *testing.T) {
	c := newTestClient("http://localhost:0")

	_, err := c.GetDailyCandles(context.Background(), "", time.Now())
	assert.Error(t, err)
}

func TestGetDailyCandlesRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"candles": {"columns": ["open", "close", "high", "low", "value", "volume", "begin", "end"], "data": []}}`))
	}))
	defer server.Close()

	c := NewClient(&config.Moex{
		BaseURL:       server.URL,
		Timeout:       time.Second,
		RetryAttempts: 2,
		RetryBackoff:  time.Millisecond,
	})

	_, err := c.GetDailyCandles(context.Background(), "SBER", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
