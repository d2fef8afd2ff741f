package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
)

type instrumentsRepository struct {
	psql *pgxpool.Pool
}

func NewInstrumentsRepository(pool *pgxpool.Pool) domain.InstrumentsRepository {
	return &instrumentsRepository{
		psql: pool,
	}
}

const instrumentColumns = `id,
			ticker,
			name,
			description,
			branch,
			esg_category,
			image_path,
			rating,
			risk_category`

func (ir *instrumentsRepository) GetInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + `
		FROM invest.instruments
		ORDER BY ticker ASC`
	rows, err := ir.psql.Query(ctx, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.Instrument{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	return scanInstruments(rows)
}

func (ir *instrumentsRepository) GetInstrumentsByTickers(ctx context.Context, tickers []string) ([]*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + `
		FROM invest.instruments
		WHERE ticker = ANY($1)
		ORDER BY ticker ASC`
	rows, err := ir.psql.Query(ctx, query, tickers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.Instrument{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	return scanInstruments(rows)
}

func (ir *instrumentsRepository) GetInstrumentByID(ctx context.Context, id string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + `
		FROM invest.instruments
		WHERE id = $1`
	instrument := &Instrument{}
	if err := ir.psql.QueryRow(ctx, query, id).Scan(
		&instrument.ID,
		&instrument.Ticker,
		&instrument.Name,
		&instrument.Description,
		&instrument.Branch,
		&instrument.ESGCategory,
		&instrument.ImagePath,
		&instrument.Rating,
		&instrument.RiskCategory,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, errs.NewStack(err)
	}

	return instrument.CreateDomain(), nil
}

func (ir *instrumentsRepository) CreateInstrument(ctx context.Context, instrument *domain.Instrument) error {
	query := `INSERT INTO invest.instruments(
			id,
			ticker,
			name,
			description,
			branch,
			esg_category,
			image_path,
			rating,
			risk_category
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := ir.psql.Exec(ctx,
		query,
		instrument.ID,
		instrument.Ticker,
		nullString(instrument.Name),
		nullString(instrument.Description),
		nullString(instrument.Branch),
		nullString(instrument.ESGCategory),
		nullString(instrument.ImagePath),
		nullString(instrument.Rating),
		nullString(instrument.RiskCategory),
	)
	if err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (ir *instrumentsRepository) CreateInstruments(ctx context.Context, instruments []*domain.Instrument) error {
	tx, err := ir.psql.Begin(ctx)
	if err != nil {
		return errs.NewStack(err)
	}
	defer rollback(ctx, tx)

	query := `INSERT INTO invest.instruments(
			id,
			ticker,
			name,
			description,
			branch,
			esg_category,
			image_path,
			rating,
			risk_category
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, instrument := range instruments {
		if _, err := tx.Exec(ctx,
			query,
			instrument.ID,
			instrument.Ticker,
			nullString(instrument.Name),
			nullString(instrument.Description),
			nullString(instrument.Branch),
			nullString(instrument.ESGCategory),
			nullString(instrument.ImagePath),
			nullString(instrument.Rating),
			nullString(instrument.RiskCategory),
		); err != nil {
			return errs.NewStack(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

// UpdateInstrument overwrites the metadata fields of an instrument; empty
// strings clear the stored value.
func (ir *instrumentsRepository) UpdateInstrument(ctx context.Context, instrument *domain.Instrument) error {
	query := `UPDATE invest.instruments
		SET ticker = $1,
			name = $2,
			description = $3,
			branch = $4,
			esg_category = $5,
			image_path = $6,
			rating = $7,
			risk_category = $8
		WHERE id = $9`
	_, err := ir.psql.Exec(ctx,
		query,
		instrument.Ticker,
		nullString(instrument.Name),
		nullString(instrument.Description),
		nullString(instrument.Branch),
		nullString(instrument.ESGCategory),
		nullString(instrument.ImagePath),
		nullString(instrument.Rating),
		nullString(instrument.RiskCategory),
		instrument.ID,
	)
	if err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (ir *instrumentsRepository) DeleteInstrument(ctx context.Context, id string) error {
	query := `DELETE FROM invest.instruments WHERE id = $1`
	if _, err := ir.psql.Exec(ctx, query, id); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (ir *instrumentsRepository) GetPopularInstruments(ctx context.Context) ([]*domain.PopularInstrument, error) {
	query := `SELECT i.id,
			i.ticker,
			i.name,
			i.description,
			i.branch,
			i.esg_category,
			i.image_path,
			i.rating,
			i.risk_category,
			COUNT(ui.id) AS score
		FROM invest.instruments i
		LEFT JOIN invest.users_instruments ui
			ON ui.ticker = i.ticker
		GROUP BY i.id
		ORDER BY score DESC, i.ticker ASC`
	rows, err := ir.psql.Query(ctx, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.PopularInstrument{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	popular := []*domain.PopularInstrument{}
	for rows.Next() {
		instrument := &Instrument{}
		var score int64
		if err := rows.Scan(
			&instrument.ID,
			&instrument.Ticker,
			&instrument.Name,
			&instrument.Description,
			&instrument.Branch,
			&instrument.ESGCategory,
			&instrument.ImagePath,
			&instrument.Rating,
			&instrument.RiskCategory,
			&score,
		); err != nil {
			return nil, errs.NewStack(err)
		}

		popular = append(popular, &domain.PopularInstrument{
			Instrument: instrument.CreateDomain(),
			Score:      score,
		})
	}

	return popular, nil
}

func scanInstruments(rows pgx.Rows) ([]*domain.Instrument, error) {
	instruments := []*domain.Instrument{}
	for rows.Next() {
		instrument := &Instrument{}
		if err := rows.Scan(
			&instrument.ID,
			&instrument.Ticker,
			&instrument.Name,
			&instrument.Description,
			&instrument.Branch,
			&instrument.ESGCategory,
			&instrument.ImagePath,
			&instrument.Rating,
			&instrument.RiskCategory,
		); err != nil {
			return nil, errs.NewStack(err)
		}
		instruments = append(instruments, instrument.CreateDomain())
	}

	return instruments, nil
}
