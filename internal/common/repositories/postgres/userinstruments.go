package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
)

type userInstrumentsRepository struct {
	psql *pgxpool.Pool
}

func NewUserInstrumentsRepository(pool *pgxpool.Pool) domain.UserInstrumentsRepository {
	return &userInstrumentsRepository{
		psql: pool,
	}
}

func (uir *userInstrumentsRepository) CreateUserInstrument(ctx context.Context, userInstrument *domain.UserInstrument) error {
	query := `INSERT INTO invest.users_instruments(
			id,
			ticker,
			user_id,
			date
		)
		VALUES ($1, $2, $3, $4)`
	_, err := uir.psql.Exec(ctx,
		query,
		userInstrument.ID,
		userInstrument.Ticker,
		userInstrument.UserID,
		userInstrument.Date,
	)
	if err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (uir *userInstrumentsRepository) GetUserInstrumentByID(ctx context.Context, id string) (*domain.UserInstrument, error) {
	query := `SELECT
			id,
			ticker,
			user_id,
			date
		FROM invest.users_instruments WHERE id = $1`
	userInstrument := &UserInstrument{}
	if err := uir.psql.QueryRow(ctx, query, id).Scan(
		&userInstrument.ID,
		&userInstrument.Ticker,
		&userInstrument.UserID,
		&userInstrument.Date,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, errs.NewStack(err)
	}

	return userInstrument.CreateDomain(), nil
}

func (uir *userInstrumentsRepository) GetUserInstruments(ctx context.Context, userID string) ([]*domain.UserInstrument, error) {
	query := `SELECT
			id,
			ticker,
			user_id,
			date
		FROM invest.users_instruments
		WHERE user_id = $1
		ORDER BY ticker ASC, date ASC`
	rows, err := uir.psql.Query(ctx, query, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.UserInstrument{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	userInstruments := []*domain.UserInstrument{}
	for rows.Next() {
		userInstrument := &UserInstrument{}
		if err := rows.Scan(
			&userInstrument.ID,
			&userInstrument.Ticker,
			&userInstrument.UserID,
			&userInstrument.Date,
		); err != nil {
			return nil, errs.NewStack(err)
		}
		userInstruments = append(userInstruments, userInstrument.CreateDomain())
	}

	return userInstruments, nil
}

func (uir *userInstrumentsRepository) DeleteUserInstrument(ctx context.Context, id string) error {
	query := `DELETE FROM invest.users_instruments WHERE id = $1`
	if _, err := uir.psql.Exec(ctx, query, id); err != nil {
		return errs.NewStack(err)
	}

	return nil
}
