// Package account owns user registration and every balance mutation.
// Each operation is a single database transaction; the user row is locked
// before any read-modify-write so concurrent calls on the same user
// serialize. The wager engine composes the Tx variants into its own
// transactions.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/betterbets/betterbets/internal/infra/ids"
	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/repos/entries"
	pgentries "github.com/betterbets/betterbets/internal/repos/entries/postgres"
	"github.com/betterbets/betterbets/internal/repos/users"
	pgusers "github.com/betterbets/betterbets/internal/repos/users/postgres"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRegistration = errors.New("invalid registration")
)

type Service struct {
	db      *sql.DB
	users   users.Users
	entries entries.Entries
}

func New(db *sql.DB) *Service {
	return &Service{
		db:      db,
		users:   pgusers.New(db),
		entries: pgentries.New(db),
	}
}

// Register creates a user with a zero balance and a bcrypt credential
// hash. The store's unique index on email is the source of truth for
// duplicates (users.ErrEmailTaken).
func (s *Service) Register(ctx context.Context, email, username, password string) (uint64, error) {
	if email == "" || username == "" || password == "" {
		return 0, fmt.Errorf("%w: email, username and password are required", ErrInvalidRegistration)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var id uint64

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, err = s.users.Create(tx, email, username, string(hash))
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}

	return id, nil
}

// Deposit credits the user the full amount and reports the processing fee.
// The fee is charged externally and deliberately not subtracted from the
// balance. Amount must be within [MinDeposit, MaxDeposit].
func (s *Service) Deposit(ctx context.Context, userID uint64, amount int64) (newBalance, fee int64, err error) {
	if amount < MinDeposit || amount > MaxDeposit {
		return 0, 0, fmt.Errorf("%w: deposit must be between %d and %d cents", ErrInvalidAmount, MinDeposit, MaxDeposit)
	}

	fee, err = ProcessingFee(amount)
	if err != nil {
		return 0, 0, fmt.Errorf("processing fee: %w", err)
	}

	err = pgutils.WithTxRetry(ctx, s.db, func(tx *sql.Tx) error {
		newBalance, err = s.CreditTx(tx, userID, amount, entries.TypeDeposit, "deposit", "")
		return err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("deposit: %w", err)
	}

	return newBalance, fee, nil
}

// Debit removes amount from the user's balance in its own transaction.
// Fails with users.ErrInsufficientFunds without any partial effect.
func (s *Service) Debit(ctx context.Context, userID uint64, amount int64, entryType, refType, refID string) (int64, error) {
	var newBalance int64

	err := pgutils.WithTxRetry(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		newBalance, err = s.DebitTx(tx, userID, amount, entryType, refType, refID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("debit: %w", err)
	}

	return newBalance, nil
}

// Credit adds amount to the user's balance in its own transaction.
func (s *Service) Credit(ctx context.Context, userID uint64, amount int64, entryType, refType, refID string) (int64, error) {
	var newBalance int64

	err := pgutils.WithTxRetry(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		newBalance, err = s.CreditTx(tx, userID, amount, entryType, refType, refID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("credit: %w", err)
	}

	return newBalance, nil
}

// DebitTx runs the debit inside the caller's transaction:
//
// 1) Lock user row (FOR UPDATE).
// 2) Pre-check balance against the locked value.
// 3) Decrease balance (guarded update).
// 4) Append a negative ledger entry.
func (s *Service) DebitTx(tx *sql.Tx, userID uint64, amount int64, entryType, refType, refID string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit must be positive", ErrInvalidAmount)
	}

	balance, err := s.users.LockAndGetBalance(tx, userID)
	if err != nil {
		return 0, fmt.Errorf("lock and get balance: %w", err)
	}

	if balance < amount {
		return 0, fmt.Errorf("pre-check decrease: %w", users.ErrInsufficientFunds)
	}

	err = s.users.DecreaseBalance(tx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("decrease balance: %w", err)
	}

	err = s.entries.Insert(tx, entries.Entry{
		ID:        ids.New(),
		UserID:    userID,
		Amount:    -amount,
		EntryType: entryType,
		RefType:   refType,
		RefID:     refID,
	})
	if err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}

	return balance - amount, nil
}

// CreditTx runs the credit inside the caller's transaction, mirroring
// DebitTx with a positive ledger entry.
func (s *Service) CreditTx(tx *sql.Tx, userID uint64, amount int64, entryType, refType, refID string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit must be positive", ErrInvalidAmount)
	}

	balance, err := s.users.LockAndGetBalance(tx, userID)
	if err != nil {
		return 0, fmt.Errorf("lock and get balance: %w", err)
	}

	err = s.users.IncreaseBalance(tx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("increase balance: %w", err)
	}

	err = s.entries.Insert(tx, entries.Entry{
		ID:        ids.New(),
		UserID:    userID,
		Amount:    amount,
		EntryType: entryType,
		RefType:   refType,
		RefID:     refID,
	})
	if err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}

	return balance + amount, nil
}

// GetBalance returns the user's balance (no locks; suitable for reads).
func (s *Service) GetBalance(ctx context.Context, userID uint64) (int64, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// Ledger returns the most recent ledger entries for a user.
func (s *Service) Ledger(ctx context.Context, userID uint64, limit int) ([]entries.Entry, error) {
	out, err := s.entries.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	return out, nil
}
