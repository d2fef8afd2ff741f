package portfolio

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

type MarketDataClient interface {
	GetDailyCandles(ctx context.Context, ticker string, from time.Time) ([]*domain.Candle, error)
}

// Service implements buy and sell processing over the user's lots.
type Service struct {
	transactions domain.TransactionsRepository
	quotes       domain.QuotesRepository
	market       MarketDataClient

	now func() time.Time
}

func NewService(
	transactions domain.TransactionsRepository,
	quotes domain.QuotesRepository,
	market MarketDataClient,
) *Service {
	return &Service{
		transactions: transactions,
		quotes:       quotes,
		market:       market,
		now:          time.Now,
	}
}

// Buy opens count lots of the ticker at the given price, all owned by one
// user instrument.
func (s *Service) Buy(ctx context.Context, userInstrument *domain.UserInstrument, count int, price float64, comment string) error {
	if count <= 0 {
		return apierrs.ErrInvalidCount
	}

	transactions := make([]*domain.Transaction, 0, count)
	for i := 0; i < count; i++ {
		transactions = append(transactions, &domain.Transaction{
			ID:               uuid.NewString(),
			Ticker:           userInstrument.Ticker,
			UserID:           userInstrument.UserID,
			UserInstrumentID: userInstrument.ID,
			OpenPrice:        price,
			OpenDate:         userInstrument.Date,
			Comment:          comment,
		})
	}

	return s.transactions.CreateTransactions(ctx, transactions)
}

// Sell closes the count oldest open lots of the ticker at the current market
// price. Either every selected lot is closed or none is.
func (s *Service) Sell(ctx context.Context, userID, ticker string, count int, comment string) error {
	if ticker == "" {
		return apierrs.ErrEmptyTicker
	}
	if count <= 0 {
		return apierrs.ErrInvalidCount
	}

	price, err := s.currentPrice(ctx, ticker)
	if err != nil {
		return err
	}

	open, err := s.transactions.GetOpenTransactionsByTicker(ctx, userID, ticker)
	if err != nil {
		return err
	}

	if len(open) < count {
		return apierrs.ErrInsufficientLots
	}

	// Strict FIFO: the oldest open lots close first.
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].OpenDate.Before(open[j].OpenDate)
	})

	ids := make([]string, 0, count)
	for _, transaction := range open[:count] {
		ids = append(ids, transaction.ID)
	}

	if err := s.transactions.CloseTransactions(ctx, ids, price, s.now(), comment); err != nil {
		return err
	}

	log.Info("lots closed",
		zap.String("user_id", userID),
		zap.String("ticker", ticker),
		zap.Int("count", count),
		zap.Float64("close_price", price),
	)

	return nil
}

// currentPrice resolves the price a sell closes at. The exchange is closed
// on weekends, so the last stored daily candle is used instead of a fetch.
func (s *Service) currentPrice(ctx context.Context, ticker string) (float64, error) {
	now := s.now()

	if weekday := now.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
		quote, err := s.quotes.GetLastQuote(ctx, ticker)
		if err != nil {
			return 0, err
		}
		if quote == nil {
			return 0, apierrs.ErrPriceUnavailable
		}

		return quote.ClosePrice, nil
	}

	candles, err := s.market.GetDailyCandles(ctx, ticker, now)
	if err != nil {
		log.Error("failed to fetch current price",
			zap.String("ticker", ticker),
			zap.Error(err),
		)

		return 0, apierrs.ErrPriceUnavailable
	}

	if len(candles) == 0 {
		return 0, apierrs.ErrPriceUnavailable
	}

	// The provider may include rows for days already closed out; the last
	// row is the current one.
	return candles[len(candles)-1].Close, nil
}
