package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
)

type quotesRepository struct {
	psql *pgxpool.Pool
}

func NewQuotesRepository(pool *pgxpool.Pool) domain.QuotesRepository {
	return &quotesRepository{
		psql: pool,
	}
}

const quoteColumns = `id,
			ticker,
			date,
			open_price,
			close_price,
			high_price,
			low_price,
			volume`

func (qr *quotesRepository) CreateQuote(ctx context.Context, quote *domain.Quote) error {
	query := `INSERT INTO invest.quotes(
			id,
			ticker,
			date,
			open_price,
			close_price,
			high_price,
			low_price,
			volume
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := qr.psql.Exec(ctx,
		query,
		quote.ID,
		quote.Ticker,
		quote.Date,
		quote.OpenPrice,
		quote.ClosePrice,
		quote.HighPrice,
		quote.LowPrice,
		quote.Volume,
	)
	if err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (qr *quotesRepository) GetLastQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM invest.quotes
		WHERE ticker = $1
		ORDER BY date DESC
		LIMIT 1`
	quote := &Quote{}
	if err := qr.psql.QueryRow(ctx, query, ticker).Scan(
		&quote.ID,
		&quote.Ticker,
		&quote.Date,
		&quote.OpenPrice,
		&quote.ClosePrice,
		&quote.HighPrice,
		&quote.LowPrice,
		&quote.Volume,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, errs.NewStack(err)
	}

	return quote.CreateDomain(), nil
}

func (qr *quotesRepository) GetQuotesInRange(ctx context.Context, ticker string, from, to time.Time) ([]*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM invest.quotes
		WHERE ticker = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	return qr.queryQuotes(ctx, query, ticker, from, to)
}

func (qr *quotesRepository) GetLatestQuotes(ctx context.Context) ([]*domain.Quote, error) {
	query := `SELECT DISTINCT ON (ticker) ` + quoteColumns + `
		FROM invest.quotes
		ORDER BY ticker ASC, date DESC`

	return qr.queryQuotes(ctx, query)
}

func (qr *quotesRepository) UpdateQuoteClosePrice(ctx context.Context, id string, closePrice float64) error {
	query := `UPDATE invest.quotes SET close_price = $1 WHERE id = $2`
	if _, err := qr.psql.Exec(ctx, query, closePrice, id); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (qr *quotesRepository) queryQuotes(ctx context.Context, query string, args ...any) ([]*domain.Quote, error) {
	rows, err := qr.psql.Query(ctx, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.Quote{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	quotes := []*domain.Quote{}
	for rows.Next() {
		quote := &Quote{}
		if err := rows.Scan(
			&quote.ID,
			&quote.Ticker,
			&quote.Date,
			&quote.OpenPrice,
			&quote.ClosePrice,
			&quote.HighPrice,
			&quote.LowPrice,
			&quote.Volume,
		); err != nil {
			return nil, errs.NewStack(err)
		}
		quotes = append(quotes, quote.CreateDomain())
	}

	return quotes, nil
}
