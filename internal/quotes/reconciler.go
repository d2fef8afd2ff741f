package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

type MarketDataClient interface {
	GetDailyCandles(ctx context.Context, ticker string, from time.Time) ([]*domain.Candle, error)
}

// Reconciler keeps the stored daily candles in line with the market-data
// provider: while a trading day is running the close price is updated in
// place, and a new row is appended once the day rolls over.
type Reconciler struct {
	quotes domain.QuotesRepository
	market MarketDataClient

	now func() time.Time
}

func NewReconciler(quotes domain.QuotesRepository, market MarketDataClient) *Reconciler {
	return &Reconciler{
		quotes: quotes,
		market: market,
		now:    time.Now,
	}
}

// Reconcile refreshes one ticker given its most recently stored daily
// candle. Provider failures are not errors: the state is left unchanged and
// picked up again on the next scheduled run.
func (r *Reconciler) Reconcile(ctx context.Context, last *domain.Quote) error {
	candles, err := r.market.GetDailyCandles(ctx, last.Ticker, r.now())
	if err != nil {
		log.Warn("failed to fetch daily candle",
			zap.String("ticker", last.Ticker),
			zap.Error(err),
		)

		return nil
	}

	if len(candles) == 0 {
		log.Info("no candles returned for quote update", zap.String("ticker", last.Ticker))

		return nil
	}

	if len(candles) > 1 {
		log.Warn("more than one candle returned for quote update",
			zap.String("ticker", last.Ticker),
			zap.Int("count", len(candles)),
		)
	}

	candle := candles[len(candles)-1]

	if sameDay(candle.End, last.Date) {
		if err := r.quotes.UpdateQuoteClosePrice(ctx, last.ID, candle.Close); err != nil {
			return err
		}

		log.Info("quote close price updated",
			zap.String("ticker", last.Ticker),
			zap.Time("date", last.Date),
			zap.Float64("close_price", candle.Close),
		)

		return nil
	}

	quote := &domain.Quote{
		ID:         uuid.NewString(),
		Ticker:     last.Ticker,
		Date:       truncateToDay(candle.Begin),
		OpenPrice:  candle.Open,
		ClosePrice: candle.Close,
		HighPrice:  candle.High,
		LowPrice:   candle.Low,
		Volume:     candle.Volume,
	}

	if err := r.quotes.CreateQuote(ctx, quote); err != nil {
		return err
	}

	log.Info("quote created",
		zap.String("ticker", quote.Ticker),
		zap.Time("date", quote.Date),
	)

	return nil
}

// ReconcileAll refreshes the latest stored candle of every tracked ticker.
// A failing ticker does not stop the rest.
func (r *Reconciler) ReconcileAll(ctx context.Context) error {
	latest, err := r.quotes.GetLatestQuotes(ctx)
	if err != nil {
		return err
	}

	for _, quote := range latest {
		if err := r.Reconcile(ctx, quote); err != nil {
			log.Error("failed to reconcile quote",
				zap.String("ticker", quote.Ticker),
				zap.Error(err),
			)
		}
	}

	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
