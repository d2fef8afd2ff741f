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

type transactionsRepository struct {
	psql *pgxpool.Pool
}

func NewTransactionsRepository(pool *pgxpool.Pool) domain.TransactionsRepository {
	return &transactionsRepository{
		psql: pool,
	}
}

const transactionColumns = `id,
			ticker,
			user_id,
			user_instrument_id,
			open_price,
			open_date,
			comment,
			close_price,
			close_date,
			close_comment`

func (tr *transactionsRepository) CreateTransactions(ctx context.Context, transactions []*domain.Transaction) error {
	tx, err := tr.psql.Begin(ctx)
	if err != nil {
		return errs.NewStack(err)
	}
	defer rollback(ctx, tx)

	query := `INSERT INTO invest.transactions(
			id,
			ticker,
			user_id,
			user_instrument_id,
			open_price,
			open_date,
			comment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, transaction := range transactions {
		if _, err := tx.Exec(ctx,
			query,
			transaction.ID,
			transaction.Ticker,
			transaction.UserID,
			transaction.UserInstrumentID,
			transaction.OpenPrice,
			transaction.OpenDate,
			nullString(transaction.Comment),
		); err != nil {
			return errs.NewStack(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (tr *transactionsRepository) GetTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM invest.transactions
		WHERE user_id = $1
		ORDER BY open_date ASC`

	return tr.queryTransactions(ctx, query, userID)
}

func (tr *transactionsRepository) GetOpenTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM invest.transactions
		WHERE user_id = $1 AND close_date IS NULL
		ORDER BY open_date ASC`

	return tr.queryTransactions(ctx, query, userID)
}

func (tr *transactionsRepository) GetOpenTransactionsByTicker(ctx context.Context, userID, ticker string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM invest.transactions
		WHERE user_id = $1 AND ticker = $2 AND close_date IS NULL
		ORDER BY open_date ASC`

	return tr.queryTransactions(ctx, query, userID, ticker)
}

// CloseTransactions closes all listed lots in one database transaction, so a
// sell either closes every selected lot or none of them. Already closed lots
// are never overwritten.
func (tr *transactionsRepository) CloseTransactions(ctx context.Context, ids []string, closePrice float64, closeDate time.Time, closeComment string) error {
	tx, err := tr.psql.Begin(ctx)
	if err != nil {
		return errs.NewStack(err)
	}
	defer rollback(ctx, tx)

	query := `UPDATE invest.transactions
		SET close_price = $1,
			close_date = $2,
			close_comment = $3
		WHERE id = $4 AND close_date IS NULL`
	for _, id := range ids {
		res, err := tx.Exec(ctx, query, closePrice, closeDate, nullString(closeComment), id)
		if err != nil {
			return errs.NewStack(err)
		}
		if res.RowsAffected() == 0 {
			return errs.NewStack(errors.New("transaction " + id + " is missing or already closed"))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (tr *transactionsRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := tr.psql.Query(ctx, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.Transaction{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		transaction := &Transaction{}
		if err := rows.Scan(
			&transaction.ID,
			&transaction.Ticker,
			&transaction.UserID,
			&transaction.UserInstrumentID,
			&transaction.OpenPrice,
			&transaction.OpenDate,
			&transaction.Comment,
			&transaction.ClosePrice,
			&transaction.CloseDate,
			&transaction.CloseComment,
		); err != nil {
			return nil, errs.NewStack(err)
		}
		transactions = append(transactions, transaction.CreateDomain())
	}

	return transactions, nil
}
