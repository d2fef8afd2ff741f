package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuotesRepository struct {
	latest  []*domain.Quote
	created []*domain.Quote
	updated map[string]float64
}

func (f *fakeQuotesRepository) CreateQuote(_ context.Context, quote *domain.Quote) error {
	f.created = append(f.created, quote)
	return nil
}

func (f *fakeQuotesRepository) GetLastQuote(context.Context, string) (*domain.Quote, error) {
	return nil, nil
}

func (f *fakeQuotesRepository) GetQuotesInRange(context.Context, string, time.Time, time.Time) ([]*domain.Quote, error) {
	return nil, nil
}

func (f *fakeQuotesRepository) GetLatestQuotes(context.Context) ([]*domain.Quote, error) {
	return f.latest, nil
}

func (f *fakeQuotesRepository) UpdateQuoteClosePrice(_ context.Context, id string, closePrice float64) error {
	if f.updated == nil {
		f.updated = map[string]float64{}
	}
	f.updated[id] = closePrice
	return nil
}

type fakeMarket struct {
	candles map[string][]*domain.Candle
	err     error
}

func (f *fakeMarket) GetDailyCandles(_ context.Context, ticker string, _ time.Time) ([]*domain.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[ticker], nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func tradingCandle(d time.Time, open, close float64) *domain.Candle {
	return &domain.Candle{
		Ticker: "SBER",
		Open:   open,
		Close:  close,
		High:   close,
		Low:    open,
		Volume: 1000,
		Begin:  d,
		End:    d.Add(23*time.Hour + 59*time.Minute),
	}
}

func storedQuote(d time.Time) *domain.Quote {
	return &domain.Quote{
		ID:         "quote-1",
		Ticker:     "SBER",
		Date:       d,
		OpenPrice:  248,
		ClosePrice: 250,
	}
}

func newTestReconciler(repo *fakeQuotesRepository, market *fakeMarket, now time.Time) *Reconciler {
	r := NewReconciler(repo, market)
	r.now = func() time.Time { return now }
	return r
}

func TestReconcileSameDayUpdatesCloseInPlace(t *testing.T) {
	today := day(2024, time.January, 10)

	repo := &fakeQuotesRepository{}
	market := &fakeMarket{candles: map[string][]*domain.Candle{
		"SBER": {tradingCandle(today, 248, 255)},
	}}
	r := newTestReconciler(repo, market, today.Add(15*time.Hour))

	require.NoError(t, r.Reconcile(context.Background(), storedQuote(today)))

	assert.Equal(t, 255.0, repo.updated["quote-1"])
	assert.Empty(t, repo.created, "same trading day must not insert a new row")
}

func TestReconcileDayRolloverInsertsNewRow(t *testing.T) {
	yesterday := day(2024, time.January, 10)
	today := day(2024, time.January, 11)

	repo := &fakeQuotesRepository{}
	market := &fakeMarket{candles: map[string][]*domain.Candle{
		"SBER": {tradingCandle(today, 256, 258)},
	}}
	r := newTestReconciler(repo, market, today.Add(15*time.Hour))

	require.NoError(t, r.Reconcile(context.Background(), storedQuote(yesterday)))

	assert.Empty(t, repo.updated, "the previous day's row must stay untouched")
	require.Len(t, repo.created, 1)

	created := repo.created[0]
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "quote-1", created.ID)
	assert.Equal(t, "SBER", created.Ticker)
	assert.Equal(t, today, created.Date)
	assert.Equal(t, 256.0, created.OpenPrice)
	assert.Equal(t, 258.0, created.ClosePrice)
}

func TestReconcileNoCandlesIsNoop(t *testing.T) {
	today := day(2024, time.January, 10)

	repo := &fakeQuotesRepository{}
	r := newTestReconciler(repo, &fakeMarket{}, today)

	require.NoError(t, r.Reconcile(context.Background(), storedQuote(today)))

	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)
}

func TestReconcileFetchFailureIsNoop(t *testing.T) {
	today := day(2024, time.January, 10)

	repo := &fakeQuotesRepository{}
	market := &fakeMarket{err: errors.New("connection refused")}
	r := newTestReconciler(repo, market, today)

	require.NoError(t, r.Reconcile(context.Background(), storedQuote(today)))

	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)
}

func TestReconcileMultipleCandlesUsesLast(t *testing.T) {
	yesterday := day(2024, time.January, 10)
	today := day(2024, time.January, 11)

	repo := &fakeQuotesRepository{}
	market := &fakeMarket{candles: map[string][]*domain.Candle{
		"SBER": {
			tradingCandle(yesterday, 248, 250),
			tradingCandle(today, 256, 258),
		},
	}}
	r := newTestReconciler(repo, market, today.Add(15*time.Hour))

	require.NoError(t, r.Reconcile(context.Background(), storedQuote(yesterday)))

	require.Len(t, repo.created, 1)
	assert.Equal(t, 258.0, repo.created[0].ClosePrice)
}

func TestReconcileAllCoversEveryTicker(t *testing.T) {
	today := day(2024, time.January, 10)

	sber := storedQuote(today)
	aflt := &domain.Quote{ID: "quote-2", Ticker: "AFLT", Date: today, ClosePrice: 100}

	repo := &fakeQuotesRepository{latest: []*domain.Quote{sber, aflt}}
	market := &fakeMarket{candles: map[string][]*domain.Candle{
		"SBER": {tradingCandle(today, 248, 255)},
	}}
	r := newTestReconciler(repo, market, today.Add(15*time.Hour))

	require.NoError(t, r.ReconcileAll(context.Background()))

	// SBER got its close refreshed; AFLT had no candles and is skipped.
	assert.Equal(t, 255.0, repo.updated["quote-1"])
	assert.Empty(t, repo.created)
}
