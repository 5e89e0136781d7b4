package bets

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrBetNotFound = errors.New("bet not found")

type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusSettled Status = "settled"
)

// Bet is a peer-to-peer wager. Entry bounds, pots and balances are minor
// units (cents). TotalPot must always equal the sum of participant
// amounts; both are written in the same transaction.
type Bet struct {
	ID             string
	CreatorID      uint64
	Title          string
	Description    string
	IsPrivate      bool
	MinEntry       int64
	MaxEntry       int64
	EndDate        time.Time
	Status         Status
	TotalPot       int64
	OutcomeOptions []string
	CorrectOutcome *string
	CreatedAt      time.Time
}

// Participation is one user's stake on a bet. Append-only.
type Participation struct {
	ID              string
	BetID           string
	UserID          uint64
	Amount          int64
	SelectedOutcome string
	CreatedAt       time.Time
}

type Bets interface {
	Insert(tx *sql.Tx, b *Bet) error
	Get(ctx context.Context, id string) (*Bet, error)
	// LockAndGet takes a FOR UPDATE lock on the bet row; every pot or
	// status mutation starts here so concurrent joins serialize.
	LockAndGet(tx *sql.Tx, id string) (*Bet, error)
	AddToPot(tx *sql.Tx, id string, amount int64) error
	// UpdateStatus moves the bet from one status to another, guarded by a
	// conditional update; callers check the current status under lock first.
	UpdateStatus(tx *sql.Tx, id string, from, to Status) error
	MarkSettled(tx *sql.Tx, id, correctOutcome string) error
	InsertParticipant(tx *sql.Tx, p *Participation) error
	ListParticipants(ctx context.Context, betID string) ([]Participation, error)
	ListParticipantsTx(tx *sql.Tx, betID string) ([]Participation, error)
}
