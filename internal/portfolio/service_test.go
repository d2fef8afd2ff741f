package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactionsRepository struct {
	transactions []*domain.Transaction
	closeErr     error
}

func (f *fakeTransactionsRepository) CreateTransactions(_ context.Context, transactions []*domain.Transaction) error {
	f.transactions = append(f.transactions, transactions...)
	return nil
}

func (f *fakeTransactionsRepository) GetTransactions(_ context.Context, userID string) ([]*domain.Transaction, error) {
	result := []*domain.Transaction{}
	for _, transaction := range f.transactions {
		if transaction.UserID == userID {
			result = append(result, transaction)
		}
	}
	return result, nil
}

func (f *fakeTransactionsRepository) GetOpenTransactions(_ context.Context, userID string) ([]*domain.Transaction, error) {
	result := []*domain.Transaction{}
	for _, transaction := range f.transactions {
		if transaction.UserID == userID && transaction.IsOpen() {
			result = append(result, transaction)
		}
	}
	return result, nil
}

func (f *fakeTransactionsRepository) GetOpenTransactionsByTicker(_ context.Context, userID, ticker string) ([]*domain.Transaction, error) {
	result := []*domain.Transaction{}
	for _, transaction := range f.transactions {
		if transaction.UserID == userID && transaction.Ticker == ticker && transaction.IsOpen() {
			result = append(result, transaction)
		}
	}
	return result, nil
}

func (f *fakeTransactionsRepository) CloseTransactions(_ context.Context, ids []string, closePrice float64, closeDate time.Time, closeComment string) error {
	if f.closeErr != nil {
		return f.closeErr
	}

	for _, id := range ids {
		for _, transaction := range f.transactions {
			if transaction.ID == id {
				price := closePrice
				date := closeDate
				comment := closeComment
				transaction.ClosePrice = &price
				transaction.CloseDate = &date
				transaction.CloseComment = &comment
			}
		}
	}
	return nil
}

type fakeQuotesRepository struct {
	lastQuote *domain.Quote
}

func (f *fakeQuotesRepository) CreateQuote(context.Context, *domain.Quote) error { return nil }

func (f *fakeQuotesRepository) GetLastQuote(context.Context, string) (*domain.Quote, error) {
	return f.lastQuote, nil
}

func (f *fakeQuotesRepository) GetQuotesInRange(context.Context, string, time.Time, time.Time) ([]*domain.Quote, error) {
	return nil, nil
}

func (f *fakeQuotesRepository) GetLatestQuotes(context.Context) ([]*domain.Quote, error) {
	return nil, nil
}

func (f *fakeQuotesRepository) UpdateQuoteClosePrice(context.Context, string, float64) error {
	return nil
}

type fakeMarket struct {
	candles []*domain.Candle
	err     error
	calls   int
}

func (f *fakeMarket) GetDailyCandles(context.Context, string, time.Time) ([]*domain.Candle, error) {
	f.calls++
	return f.candles, f.err
}

// monday is an arbitrary weekday so the market path is taken by default.
var monday = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestService(transactions *fakeTransactionsRepository, quotes *fakeQuotesRepository, market *fakeMarket, now time.Time) *Service {
	s := NewService(transactions, quotes, market)
	s.now = func() time.Time { return now }
	return s
}

func openLot(id, ticker string, price float64, day int) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		Ticker:    ticker,
		UserID:    "user-1",
		OpenPrice: price,
		OpenDate:  time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC),
	}
}

func TestSellClosesOldestLotsFirst(t *testing.T) {
	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-3", "AFLT", 105, 3),
		openLot("lot-1", "AFLT", 100, 1),
		openLot("lot-2", "AFLT", 102, 2),
	}}
	market := &fakeMarket{candles: []*domain.Candle{{Close: 110}}}
	s := newTestService(transactions, &fakeQuotesRepository{}, market, monday)

	err := s.Sell(context.Background(), "user-1", "AFLT", 2, "taking profit")
	require.NoError(t, err)

	byID := map[string]*domain.Transaction{}
	for _, transaction := range transactions.transactions {
		byID[transaction.ID] = transaction
	}

	require.NotNil(t, byID["lot-1"].ClosePrice)
	require.NotNil(t, byID["lot-2"].ClosePrice)
	assert.Equal(t, 110.0, *byID["lot-1"].ClosePrice)
	assert.Equal(t, 110.0, *byID["lot-2"].ClosePrice)
	assert.Equal(t, "taking profit", *byID["lot-1"].CloseComment)
	assert.True(t, byID["lot-3"].IsOpen())
}

func TestSellClosedLotsAreNeverReselected(t *testing.T) {
	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-1", "AFLT", 100, 1),
		openLot("lot-2", "AFLT", 102, 2),
		openLot("lot-3", "AFLT", 105, 3),
	}}
	market := &fakeMarket{candles: []*domain.Candle{{Close: 110}}}
	s := newTestService(transactions, &fakeQuotesRepository{}, market, monday)

	require.NoError(t, s.Sell(context.Background(), "user-1", "AFLT", 2, ""))
	require.NoError(t, s.Sell(context.Background(), "user-1", "AFLT", 1, ""))

	for _, transaction := range transactions.transactions {
		assert.False(t, transaction.IsOpen(), "lot %s should be closed", transaction.ID)
	}

	err := s.Sell(context.Background(), "user-1", "AFLT", 1, "")
	assert.ErrorIs(t, err, apierrs.ErrInsufficientLots)
}

func TestSellInsufficientLotsLeavesAllOpen(t *testing.T) {
	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-1", "AFLT", 100, 1),
		openLot("lot-2", "AFLT", 102, 2),
	}}
	market := &fakeMarket{candles: []*domain.Candle{{Close: 110}}}
	s := newTestService(transactions, &fakeQuotesRepository{}, market, monday)

	err := s.Sell(context.Background(), "user-1", "AFLT", 3, "")
	assert.ErrorIs(t, err, apierrs.ErrInsufficientLots)

	for _, transaction := range transactions.transactions {
		assert.True(t, transaction.IsOpen())
	}
}

func TestSellIgnoresOtherTickers(t *testing.T) {
	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-1", "SBER", 250, 1),
		openLot("lot-2", "AFLT", 100, 2),
	}}
	market := &fakeMarket{candles: []*domain.Candle{{Close: 110}}}
	s := newTestService(transactions, &fakeQuotesRepository{}, market, monday)

	require.NoError(t, s.Sell(context.Background(), "user-1", "AFLT", 1, ""))

	byID := map[string]*domain.Transaction{}
	for _, transaction := range transactions.transactions {
		byID[transaction.ID] = transaction
	}
	assert.True(t, byID["lot-1"].IsOpen())
	assert.False(t, byID["lot-2"].IsOpen())
}

func TestSellPriceUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		market *fakeMarket
	}{
		{name: "fetch failure", market: &fakeMarket{err: errors.New("connection refused")}},
		{name: "empty series", market: &fakeMarket{candles: []*domain.Candle{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
				openLot("lot-1", "AFLT", 100, 1),
			}}
			s := newTestService(transactions, &fakeQuotesRepository{}, tt.market, monday)

			err := s.Sell(context.Background(), "user-1", "AFLT", 1, "")
			assert.ErrorIs(t, err, apierrs.ErrPriceUnavailable)
			assert.True(t, transactions.transactions[0].IsOpen())
		})
	}
}

func TestSellUsesLastCandleAsCurrentPrice(t *testing.T) {
	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-1", "AFLT", 100, 1),
	}}
	market := &fakeMarket{candles: []*domain.Candle{
		{Close: 108},
		{Close: 109},
		{Close: 111},
	}}
	s := newTestService(transactions, &fakeQuotesRepository{}, market, monday)

	require.NoError(t, s.Sell(context.Background(), "user-1", "AFLT", 1, ""))
	assert.Equal(t, 111.0, *transactions.transactions[0].ClosePrice)
}

func TestSellOnWeekendUsesStoredQuote(t *testing.T) {
	saturday := time.Date(2024, 1, 13, 12, 0, 0, 0, time.UTC)

	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-1", "AFLT", 100, 1),
	}}
	quotes := &fakeQuotesRepository{lastQuote: &domain.Quote{Ticker: "AFLT", ClosePrice: 107}}
	market := &fakeMarket{candles: []*domain.Candle{{Close: 110}}}
	s := newTestService(transactions, quotes, market, saturday)

	require.NoError(t, s.Sell(context.Background(), "user-1", "AFLT", 1, ""))

	assert.Equal(t, 107.0, *transactions.transactions[0].ClosePrice)
	assert.Zero(t, market.calls, "market must not be called on a weekend")
}

func TestSellOnWeekendWithoutStoredQuote(t *testing.T) {
	saturday := time.Date(2024, 1, 13, 12, 0, 0, 0, time.UTC)

	transactions := &fakeTransactionsRepository{transactions: []*domain.Transaction{
		openLot("lot-1", "AFLT", 100, 1),
	}}
	s := newTestService(transactions, &fakeQuotesRepository{}, &fakeMarket{}, saturday)

	err := s.Sell(context.Background(), "user-1", "AFLT", 1, "")
	assert.ErrorIs(t, err, apierrs.ErrPriceUnavailable)
}

func TestSellValidation(t *testing.T) {
	s := newTestService(&fakeTransactionsRepository{}, &fakeQuotesRepository{}, &fakeMarket{}, monday)

	assert.ErrorIs(t, s.Sell(context.Background(), "user-1", "", 1, ""), apierrs.ErrEmptyTicker)
	assert.ErrorIs(t, s.Sell(context.Background(), "user-1", "AFLT", 0, ""), apierrs.ErrInvalidCount)
	assert.ErrorIs(t, s.Sell(context.Background(), "user-1", "AFLT", -2, ""), apierrs.ErrInvalidCount)
}

func TestBuyOpensOneLotPerUnit(t *testing.T) {
	transactions := &fakeTransactionsRepository{}
	s := newTestService(transactions, &fakeQuotesRepository{}, &fakeMarket{}, monday)

	userInstrument := &domain.UserInstrument{
		ID:     "ui-1",
		Ticker: "AFLT",
		UserID: "user-1",
		Date:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.Buy(context.Background(), userInstrument, 3, 101.5, "initial buy"))

	require.Len(t, transactions.transactions, 3)
	for _, transaction := range transactions.transactions {
		assert.Equal(t, "AFLT", transaction.Ticker)
		assert.Equal(t, "user-1", transaction.UserID)
		assert.Equal(t, "ui-1", transaction.UserInstrumentID)
		assert.Equal(t, 101.5, transaction.OpenPrice)
		assert.True(t, transaction.IsOpen())
		assert.NotEmpty(t, transaction.ID)
	}
}

func TestBuyInvalidCount(t *testing.T) {
	s := newTestService(&fakeTransactionsRepository{}, &fakeQuotesRepository{}, &fakeMarket{}, monday)

	err := s.Buy(context.Background(), &domain.UserInstrument{}, 0, 100, "")
	assert.ErrorIs(t, err, apierrs.ErrInvalidCount)
}
