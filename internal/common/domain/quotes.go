package domain

import (
	"context"
	"time"
)

type QuotesRepository interface {
	CreateQuote(ctx context.Context, quote *Quote) error
	// GetLastQuote returns the most recent stored daily candle for the
	// ticker, or nil without an error when none is stored.
	GetLastQuote(ctx context.Context, ticker string) (*Quote, error)
	GetQuotesInRange(ctx context.Context, ticker string, from, to time.Time) ([]*Quote, error)
	// GetLatestQuotes returns the most recent stored daily candle of every
	// tracked ticker, one row per ticker.
	GetLatestQuotes(ctx context.Context) ([]*Quote, error)
	UpdateQuoteClosePrice(ctx context.Context, id string, closePrice float64) error
}

// Quote is one stored daily candle. At most one row exists per
// (ticker, trading day).
type Quote struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`

	Date       time.Time `json:"date"`
	OpenPrice  float64   `json:"open_price"`
	ClosePrice float64   `json:"close_price"`
	HighPrice  float64   `json:"high_price"`
	LowPrice   float64   `json:"low_price"`
	Volume     float64   `json:"volume"`
}

// Candle is one OHLCV bar as returned by the market-data provider.
type Candle struct {
	Ticker string `json:"ticker"`

	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Value  float64 `json:"value"`
	Volume float64 `json:"volume"`

	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`
}
