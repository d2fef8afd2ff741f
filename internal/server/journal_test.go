package server

import (
	"testing"
	"time"

	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func journalInstrument(ticker, name string) *domain.Instrument {
	return &domain.Instrument{ID: ticker + "-id", Ticker: ticker, Name: name}
}

func closed(transaction *domain.Transaction, price float64, date time.Time, comment string) *domain.Transaction {
	transaction.ClosePrice = &price
	transaction.CloseDate = &date
	transaction.CloseComment = &comment
	return transaction
}

func TestMapJournalGroupsLotsByMoment(t *testing.T) {
	boughtAt := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	soldAt := time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC)

	transactions := []*domain.Transaction{
		{ID: "1", Ticker: "AFLT", OpenPrice: 100, OpenDate: boughtAt, Comment: "first buy"},
		closed(&domain.Transaction{ID: "2", Ticker: "AFLT", OpenPrice: 100, OpenDate: boughtAt, Comment: "first buy"}, 110, soldAt, "profit"),
		closed(&domain.Transaction{ID: "3", Ticker: "AFLT", OpenPrice: 100, OpenDate: boughtAt, Comment: "first buy"}, 110, soldAt, "profit"),
	}
	instruments := []*domain.Instrument{journalInstrument("AFLT", "Aeroflot")}

	journal := mapJournal(transactions, instruments)
	require.Len(t, journal, 2)

	buy := journal[0]
	assert.Equal(t, domain.JournalTypeBuy, buy.Type)
	assert.Equal(t, "Aeroflot", buy.DisplayName)
	assert.Equal(t, 3, buy.Count)
	assert.Equal(t, 100.0, buy.Price)
	assert.Equal(t, "first buy", buy.Comment)
	assert.Equal(t, boughtAt, buy.Date)

	sell := journal[1]
	assert.Equal(t, domain.JournalTypeSell, sell.Type)
	assert.Equal(t, 2, sell.Count)
	assert.Equal(t, 110.0, sell.Price)
	assert.Equal(t, "profit", sell.Comment)
	assert.Equal(t, soldAt, sell.Date)
}

func TestMapJournalSeparatesDifferentMoments(t *testing.T) {
	day1 := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC)

	transactions := []*domain.Transaction{
		{ID: "1", Ticker: "AFLT", OpenPrice: 100, OpenDate: day1},
		{ID: "2", Ticker: "AFLT", OpenPrice: 102, OpenDate: day2},
		{ID: "3", Ticker: "SBER", OpenPrice: 250, OpenDate: day1},
	}
	instruments := []*domain.Instrument{
		journalInstrument("AFLT", "Aeroflot"),
		journalInstrument("SBER", "Sberbank"),
	}

	journal := mapJournal(transactions, instruments)
	require.Len(t, journal, 3)

	// Ordered by date, then ticker.
	assert.Equal(t, "AFLT", journal[0].Ticker)
	assert.Equal(t, day1, journal[0].Date)
	assert.Equal(t, "SBER", journal[1].Ticker)
	assert.Equal(t, day1, journal[1].Date)
	assert.Equal(t, "AFLT", journal[2].Ticker)
	assert.Equal(t, day2, journal[2].Date)
}

func TestMapJournalSkipsUnknownTickers(t *testing.T) {
	transactions := []*domain.Transaction{
		{ID: "1", Ticker: "GONE", OpenPrice: 10, OpenDate: time.Now()},
	}

	journal := mapJournal(transactions, nil)
	assert.Empty(t, journal)
}
