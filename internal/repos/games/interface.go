package games

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrLineNotFound = errors.New("line not found")
)

type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusSettled Status = "settled"
)

// Option is one side of a betting line. Odds and multiplier are display
// data set at creation; payouts are parimutuel over the line pot.
type Option struct {
	Title      string
	Odds       float64
	Multiplier float64
}

// Line is a two-sided market inside a game with its own pot.
type Line struct {
	Index         int
	Title         string
	Options       [2]Option
	TotalPot      int64
	WinningOption *int
}

// Game groups betting lines under one creator and end date. TotalPot is
// the sum of its line pots, maintained in the same transaction as every
// line pot change.
type Game struct {
	ID          string
	CreatorID   uint64
	Title       string
	Description string
	EndDate     time.Time
	Status      Status
	TotalPot    int64
	Lines       []Line
	CreatedAt   time.Time
}

// LineParticipation is one user's stake on a line option. Append-only.
type LineParticipation struct {
	ID          string
	GameID      string
	LineIndex   int
	UserID      uint64
	Amount      int64
	OptionIndex int
	CreatedAt   time.Time
}

type Games interface {
	Insert(tx *sql.Tx, g *Game) error
	Get(ctx context.Context, id string) (*Game, error)
	// LockAndGet takes a FOR UPDATE lock on the game row (lines included
	// in the result) so concurrent joins and settlement serialize.
	LockAndGet(tx *sql.Tx, id string) (*Game, error)
	// AddToLinePot bumps both the line pot and the game pot.
	AddToLinePot(tx *sql.Tx, gameID string, lineIndex int, amount int64) error
	UpdateStatus(tx *sql.Tx, id string, from, to Status) error
	MarkLineWinner(tx *sql.Tx, gameID string, lineIndex, winningOption int) error
	MarkSettled(tx *sql.Tx, id string) error
	InsertParticipant(tx *sql.Tx, p *LineParticipation) error
	ListLineParticipantsTx(tx *sql.Tx, gameID string, lineIndex int) ([]LineParticipation, error)
}
