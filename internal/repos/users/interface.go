package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmailTaken        = errors.New("email already registered")
)

// User is the stored account record. Balance is minor units (cents) and
// never negative; only the account service mutates it.
type User struct {
	ID           uint64
	Email        string
	Username     string
	PasswordHash string
	Balance      int64
	CreatedAt    time.Time
}

type Users interface {
	Create(tx *sql.Tx, email, username, passwordHash string) (uint64, error)
	Exists(tx *sql.Tx, userID uint64) error
	Get(ctx context.Context, userID uint64) (*User, error)
	GetBalance(ctx context.Context, userID uint64) (int64, error)
	LockAndGetBalance(tx *sql.Tx, userID uint64) (int64, error)
	IncreaseBalance(tx *sql.Tx, userID uint64, amount int64) error
	DecreaseBalance(tx *sql.Tx, userID uint64, amount int64) error
}
