package domain

import (
	"context"
	"time"
)

// User represents a system user. A user belongs to exactly one mandant
// and is created administratively; the core never updates it.
type User struct {
	UUID         string    `json:"uuid"`
	MandantUUID  string    `json:"-"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // lowercase hex SHA3-256 of password_salt
	Salt         string    `json:"-"`
	Lastname     string    `json:"lastname"`
	Firstname    string    `json:"firstname"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"-"`
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}
