package domain

import "context"

type InstrumentsRepository interface {
	GetInstruments(ctx context.Context) ([]*Instrument, error)
	GetInstrumentsByTickers(ctx context.Context, tickers []string) ([]*Instrument, error)
	// GetInstrumentByID returns nil without an error when the instrument
	// does not exist.
	GetInstrumentByID(ctx context.Context, id string) (*Instrument, error)
	CreateInstrument(ctx context.Context, instrument *Instrument) error
	CreateInstruments(ctx context.Context, instruments []*Instrument) error
	UpdateInstrument(ctx context.Context, instrument *Instrument) error
	DeleteInstrument(ctx context.Context, id string) error
	GetPopularInstruments(ctx context.Context) ([]*PopularInstrument, error)
}

type Instrument struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`

	Description  string `json:"description,omitempty"`
	Branch       string `json:"branch,omitempty"`
	ESGCategory  string `json:"esg_category,omitempty"`
	ImagePath    string `json:"image_path,omitempty"`
	Rating       string `json:"rating,omitempty"`
	RiskCategory string `json:"risk_category,omitempty"`
}

// PopularInstrument scores an instrument by how many users track it.
type PopularInstrument struct {
	Instrument *Instrument `json:"instrument"`
	Score      int64       `json:"score"`
}
