package postgres

import (
	"database/sql"
	"time"

	"github.com/retvizor/invest-backend/internal/common/domain"
)

type User struct {
	ID string `db:"id"`

	CreatedAt time.Time `db:"created_at"`
}

func (u *User) CreateDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
	}
}

type Instrument struct {
	ID     string `db:"id"`
	Ticker string `db:"ticker"`

	Name         sql.NullString `db:"name"`
	Description  sql.NullString `db:"description"`
	Branch       sql.NullString `db:"branch"`
	ESGCategory  sql.NullString `db:"esg_category"`
	ImagePath    sql.NullString `db:"image_path"`
	Rating       sql.NullString `db:"rating"`
	RiskCategory sql.NullString `db:"risk_category"`
}

func (i *Instrument) CreateDomain() *domain.Instrument {
	return &domain.Instrument{
		ID:           i.ID,
		Ticker:       i.Ticker,
		Name:         i.Name.String,
		Description:  i.Description.String,
		Branch:       i.Branch.String,
		ESGCategory:  i.ESGCategory.String,
		ImagePath:    i.ImagePath.String,
		Rating:       i.Rating.String,
		RiskCategory: i.RiskCategory.String,
	}
}

type UserInstrument struct {
	ID     string `db:"id"`
	Ticker string `db:"ticker"`
	UserID string `db:"user_id"`

	Date time.Time `db:"date"`
}

func (ui *UserInstrument) CreateDomain() *domain.UserInstrument {
	return &domain.UserInstrument{
		ID:     ui.ID,
		Ticker: ui.Ticker,
		UserID: ui.UserID,
		Date:   ui.Date,
	}
}

type Transaction struct {
	ID               string `db:"id"`
	Ticker           string `db:"ticker"`
	UserID           string `db:"user_id"`
	UserInstrumentID string `db:"user_instrument_id"`

	OpenPrice float64        `db:"open_price"`
	OpenDate  time.Time      `db:"open_date"`
	Comment   sql.NullString `db:"comment"`

	ClosePrice   sql.NullFloat64 `db:"close_price"`
	CloseDate    sql.NullTime    `db:"close_date"`
	CloseComment sql.NullString  `db:"close_comment"`
}

func (t *Transaction) CreateDomain() *domain.Transaction {
	transaction := &domain.Transaction{
		ID:               t.ID,
		Ticker:           t.Ticker,
		UserID:           t.UserID,
		UserInstrumentID: t.UserInstrumentID,
		OpenPrice:        t.OpenPrice,
		OpenDate:         t.OpenDate,
		Comment:          t.Comment.String,
	}

	if t.ClosePrice.Valid {
		transaction.ClosePrice = &t.ClosePrice.Float64
	}
	if t.CloseDate.Valid {
		transaction.CloseDate = &t.CloseDate.Time
	}
	if t.CloseComment.Valid {
		transaction.CloseComment = &t.CloseComment.String
	}

	return transaction
}

type Quote struct {
	ID     string `db:"id"`
	Ticker string `db:"ticker"`

	Date       time.Time `db:"date"`
	OpenPrice  float64   `db:"open_price"`
	ClosePrice float64   `db:"close_price"`
	HighPrice  float64   `db:"high_price"`
	LowPrice   float64   `db:"low_price"`
	Volume     float64   `db:"volume"`
}

func (q *Quote) CreateDomain() *domain.Quote {
	return &domain.Quote{
		ID:         q.ID,
		Ticker:     q.Ticker,
		Date:       q.Date,
		OpenPrice:  q.OpenPrice,
		ClosePrice: q.ClosePrice,
		HighPrice:  q.HighPrice,
		LowPrice:   q.LowPrice,
		Volume:     q.Volume,
	}
}

type RecommendationQuote struct {
	ID     string `db:"id"`
	Ticker string `db:"ticker"`

	TipPeriod int64 `db:"tip_period"`
	Buy       int64 `db:"buy"`

	Date time.Time `db:"created_at"`
}

func (rq *RecommendationQuote) CreateDomain() *domain.RecommendationQuote {
	return &domain.RecommendationQuote{
		ID:        rq.ID,
		Ticker:    rq.Ticker,
		TipPeriod: rq.TipPeriod,
		Buy:       rq.Buy,
		Date:      rq.Date,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
