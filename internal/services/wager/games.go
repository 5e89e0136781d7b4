package wager

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/betterbets/betterbets/internal/infra/ids"
	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/repos/entries"
	"github.com/betterbets/betterbets/internal/repos/games"
)

type OptionParams struct {
	Title      string
	Odds       float64
	Multiplier float64
}

type LineParams struct {
	Title   string
	Options []OptionParams
}

type CreateGameParams struct {
	CreatorID   uint64
	Title       string
	Description string
	EndDate     time.Time
	Lines       []LineParams
}

// CreateGame validates the spec and stores a new open game with zeroed
// line pots.
func (e *Engine) CreateGame(ctx context.Context, p CreateGameParams) (*games.Game, error) {
	err := validateGameSpec(p, e.clock.Now())
	if err != nil {
		return nil, err
	}

	g := &games.Game{
		ID:          ids.New(),
		CreatorID:   p.CreatorID,
		Title:       p.Title,
		Description: p.Description,
		EndDate:     p.EndDate,
		Status:      games.StatusOpen,
		Lines:       make([]games.Line, len(p.Lines)),
	}

	for i, lp := range p.Lines {
		g.Lines[i] = games.Line{
			Index: i,
			Title: lp.Title,
			Options: [2]games.Option{
				{Title: lp.Options[0].Title, Odds: lp.Options[0].Odds, Multiplier: lp.Options[0].Multiplier},
				{Title: lp.Options[1].Title, Odds: lp.Options[1].Odds, Multiplier: lp.Options[1].Multiplier},
			},
		}
	}

	err = pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		err := e.users.Exists(tx, p.CreatorID)
		if err != nil {
			return fmt.Errorf("check creator exists: %w", err)
		}

		err = e.games.Insert(tx, g)
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	slog.Info("game created", "game_id", g.ID, "creator_id", g.CreatorID, "lines", len(g.Lines))

	return g, nil
}

// GetGame returns a game with its lines.
func (e *Engine) GetGame(ctx context.Context, gameID string) (*games.Game, error) {
	g, err := e.games.Get(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	return g, nil
}

// JoinLine stakes amount on one option of one line. Mirrors JoinBet:
// debit, participation and pot update are a single transaction.
func (e *Engine) JoinLine(ctx context.Context, gameID string, lineIndex int, userID uint64, amount int64, optionIndex int) (*games.LineParticipation, error) {
	p := &games.LineParticipation{
		ID:          ids.New(),
		GameID:      gameID,
		LineIndex:   lineIndex,
		UserID:      userID,
		Amount:      amount,
		OptionIndex: optionIndex,
	}

	err := pgutils.WithTxRetry(ctx, e.db, func(tx *sql.Tx) error {
		g, err := e.games.LockAndGet(tx, gameID)
		if err != nil {
			return fmt.Errorf("lock game: %w", err)
		}

		if g.Status != games.StatusOpen {
			return fmt.Errorf("join game %s: %w", gameID, ErrBetClosed)
		}

		if e.clock.Now().After(g.EndDate) {
			return fmt.Errorf("join game %s past end date: %w", gameID, ErrBetClosed)
		}

		if lineIndex < 0 || lineIndex >= len(g.Lines) {
			return fmt.Errorf("line %d: %w", lineIndex, games.ErrLineNotFound)
		}

		if amount <= 0 {
			return fmt.Errorf("%w: stake must be positive", ErrAmountOutOfRange)
		}

		if optionIndex != 0 && optionIndex != 1 {
			return fmt.Errorf("%w: option index %d", ErrInvalidOutcome, optionIndex)
		}

		_, err = e.accounts.DebitTx(tx, userID, amount, entries.TypeStake, "game", gameID)
		if err != nil {
			return fmt.Errorf("debit stake: %w", err)
		}

		err = e.games.InsertParticipant(tx, p)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}

		err = e.games.AddToLinePot(tx, gameID, lineIndex, amount)
		if err != nil {
			return fmt.Errorf("add to line pot: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("join line: %w", err)
	}

	slog.Info("line joined",
		"game_id", gameID, "line_index", lineIndex,
		"user_id", userID, "amount", amount, "option", optionIndex)

	return p, nil
}

// CloseGame moves an open game to closed.
func (e *Engine) CloseGame(ctx context.Context, gameID string) error {
	err := pgutils.WithTxRetry(ctx, e.db, func(tx *sql.Tx) error {
		g, err := e.games.LockAndGet(tx, gameID)
		if err != nil {
			return fmt.Errorf("lock game: %w", err)
		}

		if g.Status != games.StatusOpen {
			return fmt.Errorf("close game %s in status %q: %w", gameID, g.Status, ErrInvalidStateTransition)
		}

		err = e.games.UpdateStatus(tx, gameID, games.StatusOpen, games.StatusClosed)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("close game: %w", err)
	}

	slog.Info("game closed", "game_id", gameID)

	return nil
}
