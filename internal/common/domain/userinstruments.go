package domain

import (
	"context"
	"time"
)

type UserInstrumentsRepository interface {
	CreateUserInstrument(ctx context.Context, userInstrument *UserInstrument) error
	// GetUserInstrumentByID returns nil without an error when the row does
	// not exist.
	GetUserInstrumentByID(ctx context.Context, id string) (*UserInstrument, error)
	GetUserInstruments(ctx context.Context, userID string) ([]*UserInstrument, error)
	DeleteUserInstrument(ctx context.Context, id string) error
}

// UserInstrument is a user's declared interest in a ticker, starting at Date.
type UserInstrument struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	UserID string `json:"user_id"`

	Date time.Time `json:"date"`
}
