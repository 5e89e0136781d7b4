// Package wager owns the bet and game lifecycle: creation, stake
// placement, pot accounting, and settlement.
//
// Every mutating operation is exactly one database transaction. The wager
// record is locked first (FOR UPDATE), then the user rows, so two
// concurrent joins on the same bet serialize and the pot never loses an
// update. Transactions aborted on serialization conflicts are retried by
// pgutils.WithTxRetry.
package wager

import (
	"database/sql"
	"errors"

	"github.com/betterbets/betterbets/internal/clock"
	"github.com/betterbets/betterbets/internal/repos/bets"
	pgbets "github.com/betterbets/betterbets/internal/repos/bets/postgres"
	"github.com/betterbets/betterbets/internal/repos/games"
	pggames "github.com/betterbets/betterbets/internal/repos/games/postgres"
	"github.com/betterbets/betterbets/internal/repos/users"
	pgusers "github.com/betterbets/betterbets/internal/repos/users/postgres"
	"github.com/betterbets/betterbets/internal/services/account"
)

var (
	ErrInvalidBetSpec         = errors.New("invalid bet spec")
	ErrInvalidGameSpec        = errors.New("invalid game spec")
	ErrAmountOutOfRange       = errors.New("amount out of range")
	ErrInvalidOutcome         = errors.New("invalid outcome")
	ErrBetClosed              = errors.New("bet closed")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadySettled         = errors.New("already settled")
)

type Engine struct {
	db       *sql.DB
	bets     bets.Bets
	games    games.Games
	users    users.Users
	accounts *account.Service
	clock    clock.Clock
}

func New(db *sql.DB, accounts *account.Service, clk clock.Clock) *Engine {
	return &Engine{
		db:       db,
		bets:     pgbets.New(db),
		games:    pggames.New(db),
		users:    pgusers.New(db),
		accounts: accounts,
		clock:    clk,
	}
}
