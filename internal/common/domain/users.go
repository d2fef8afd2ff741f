package domain

import (
	"context"
	"time"
)

type UsersRepository interface {
	CreateUser(ctx context.Context, user *User) error
	// GetUserByID returns nil without an error when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*User, error)
}

type User struct {
	ID string `json:"id"`

	CreatedAt time.Time `json:"created_at"`
}
