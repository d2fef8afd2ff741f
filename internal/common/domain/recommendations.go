package domain

import (
	"context"
	"time"
)

type RecommendationsRepository interface {
	// GetBuyRecommendations returns recommendation quotes with the buy flag
	// set, newest first.
	GetBuyRecommendations(ctx context.Context) ([]*RecommendationQuote, error)
}

// RecommendationQuote is an externally computed buy/sell tip for a ticker.
type RecommendationQuote struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`

	TipPeriod int64 `json:"tip_period"`
	Buy       int64 `json:"buy"`

	Date time.Time `json:"date"`
}
