package server

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/retvizor/invest-backend/internal/common/domain"
)

type journalItem struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Ticker      string    `json:"ticker"`
	ImagePath   string    `json:"image_path,omitempty"`
	Count       int       `json:"count"`
	Price       float64   `json:"price"`
	Comment     string    `json:"comment,omitempty"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
}

type journalKey struct {
	date   time.Time
	ticker string
}

// mapJournal collapses individual lots into journal entries: lots of one
// ticker bought at the same moment become a single buy entry, lots closed at
// the same moment a single sell entry.
func mapJournal(transactions []*domain.Transaction, instruments []*domain.Instrument) []journalItem {
	byTicker := make(map[string]*domain.Instrument, len(instruments))
	for _, instrument := range instruments {
		byTicker[instrument.Ticker] = instrument
	}

	buys := make(map[journalKey][]*domain.Transaction)
	sells := make(map[journalKey][]*domain.Transaction)
	for _, transaction := range transactions {
		key := journalKey{date: transaction.OpenDate, ticker: transaction.Ticker}
		buys[key] = append(buys[key], transaction)

		if transaction.CloseDate != nil {
			key := journalKey{date: *transaction.CloseDate, ticker: transaction.Ticker}
			sells[key] = append(sells[key], transaction)
		}
	}

	journal := make([]journalItem, 0, len(buys)+len(sells))

	for key, group := range buys {
		instrument, ok := byTicker[key.ticker]
		if !ok {
			continue
		}

		journal = append(journal, journalItem{
			ID:          uuid.NewString(),
			DisplayName: instrument.Name,
			Ticker:      key.ticker,
			ImagePath:   instrument.ImagePath,
			Count:       len(group),
			Price:       group[0].OpenPrice,
			Comment:     group[0].Comment,
			Date:        key.date,
			Type:        domain.JournalTypeBuy,
		})
	}

	for key, group := range sells {
		instrument, ok := byTicker[key.ticker]
		if !ok {
			continue
		}

		item := journalItem{
			ID:          uuid.NewString(),
			DisplayName: instrument.Name,
			Ticker:      key.ticker,
			ImagePath:   instrument.ImagePath,
			Count:       len(group),
			Date:        key.date,
			Type:        domain.JournalTypeSell,
		}
		if group[0].ClosePrice != nil {
			item.Price = *group[0].ClosePrice
		}
		if group[0].CloseComment != nil {
			item.Comment = *group[0].CloseComment
		}

		journal = append(journal, item)
	}

	sort.Slice(journal, func(i, j int) bool {
		if !journal[i].Date.Equal(journal[j].Date) {
			return journal[i].Date.Before(journal[j].Date)
		}
		if journal[i].Ticker != journal[j].Ticker {
			return journal[i].Ticker < journal[j].Ticker
		}

		return journal[i].Type < journal[j].Type
	})

	return journal
}
