package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
)

type recommendationsRepository struct {
	psql *pgxpool.Pool
}

func NewRecommendationsRepository(pool *pgxpool.Pool) domain.RecommendationsRepository {
	return &recommendationsRepository{
		psql: pool,
	}
}

func (rr *recommendationsRepository) GetBuyRecommendations(ctx context.Context) ([]*domain.RecommendationQuote, error) {
	query := `SELECT
			id,
			ticker,
			tip_period,
			buy,
			created_at
		FROM invest.recommendation_quotes
		WHERE buy = 1
		ORDER BY created_at DESC`
	rows, err := rr.psql.Query(ctx, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*domain.RecommendationQuote{}, nil
		}

		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	recommendations := []*domain.RecommendationQuote{}
	for rows.Next() {
		recommendation := &RecommendationQuote{}
		if err := rows.Scan(
			&recommendation.ID,
			&recommendation.Ticker,
			&recommendation.TipPeriod,
			&recommendation.Buy,
			&recommendation.Date,
		); err != nil {
			return nil, errs.NewStack(err)
		}
		recommendations = append(recommendations, recommendation.CreateDomain())
	}

	return recommendations, nil
}
