package domain

import (
	"context"
	"time"
)

type TransactionsRepository interface {
	CreateTransactions(ctx context.Context, transactions []*Transaction) error
	GetTransactions(ctx context.Context, userID string) ([]*Transaction, error)
	GetOpenTransactions(ctx context.Context, userID string) ([]*Transaction, error)
	// GetOpenTransactionsByTicker returns still-open lots for the pair,
	// oldest open date first.
	GetOpenTransactionsByTicker(ctx context.Context, userID, ticker string) ([]*Transaction, error)
	// CloseTransactions sets the close fields of every listed lot in a
	// single database transaction.
	CloseTransactions(ctx context.Context, ids []string, closePrice float64, closeDate time.Time, closeComment string) error
}

// Transaction is a single buy lot. A lot is open while CloseDate is nil;
// the close fields are written exactly once, by the sell path.
type Transaction struct {
	ID               string `json:"id"`
	Ticker           string `json:"ticker"`
	UserID           string `json:"user_id"`
	UserInstrumentID string `json:"user_instrument_id"`

	OpenPrice float64   `json:"open_price"`
	OpenDate  time.Time `json:"open_date"`
	Comment   string    `json:"comment,omitempty"`

	ClosePrice   *float64   `json:"close_price,omitempty"`
	CloseDate    *time.Time `json:"close_date,omitempty"`
	CloseComment *string    `json:"close_comment,omitempty"`
}

func (t *Transaction) IsOpen() bool {
	return t.CloseDate == nil
}
