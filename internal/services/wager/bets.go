package wager

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/betterbets/betterbets/internal/infra/ids"
	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/repos/bets"
	"github.com/betterbets/betterbets/internal/repos/entries"
)

type CreateBetParams struct {
	CreatorID      uint64
	Title          string
	Description    string
	IsPrivate      bool
	MinEntry       int64
	MaxEntry       int64
	EndDate        time.Time
	OutcomeOptions []string
}

// CreateBet validates the spec and stores a new open bet with an empty pot.
func (e *Engine) CreateBet(ctx context.Context, p CreateBetParams) (*bets.Bet, error) {
	err := validateBetSpec(p, e.clock.Now())
	if err != nil {
		return nil, err
	}

	b := &bets.Bet{
		ID:             ids.New(),
		CreatorID:      p.CreatorID,
		Title:          p.Title,
		Description:    p.Description,
		IsPrivate:      p.IsPrivate,
		MinEntry:       p.MinEntry,
		MaxEntry:       p.MaxEntry,
		EndDate:        p.EndDate,
		Status:         bets.StatusOpen,
		OutcomeOptions: p.OutcomeOptions,
	}

	err = pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		err := e.users.Exists(tx, p.CreatorID)
		if err != nil {
			return fmt.Errorf("check creator exists: %w", err)
		}

		err = e.bets.Insert(tx, b)
		if err != nil {
			return fmt.Errorf("insert bet: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create bet: %w", err)
	}

	slog.Info("bet created", "bet_id", b.ID, "creator_id", b.CreatorID)

	return b, nil
}

// GetBet returns a bet with its participants.
func (e *Engine) GetBet(ctx context.Context, betID string) (*bets.Bet, []bets.Participation, error) {
	b, err := e.bets.Get(ctx, betID)
	if err != nil {
		return nil, nil, fmt.Errorf("get bet: %w", err)
	}

	parts, err := e.bets.ListParticipants(ctx, betID)
	if err != nil {
		return nil, nil, fmt.Errorf("list participants: %w", err)
	}

	return b, parts, nil
}

// JoinBet stakes amount on the selected outcome. The debit and the pot
// update are one transaction: both happen or neither does.
func (e *Engine) JoinBet(ctx context.Context, betID string, userID uint64, amount int64, selectedOutcome string) (*bets.Participation, error) {
	p := &bets.Participation{
		ID:              ids.New(),
		BetID:           betID,
		UserID:          userID,
		Amount:          amount,
		SelectedOutcome: selectedOutcome,
	}

	err := pgutils.WithTxRetry(ctx, e.db, func(tx *sql.Tx) error {
		b, err := e.bets.LockAndGet(tx, betID)
		if err != nil {
			return fmt.Errorf("lock bet: %w", err)
		}

		if b.Status != bets.StatusOpen {
			return fmt.Errorf("join bet %s: %w", betID, ErrBetClosed)
		}

		if e.clock.Now().After(b.EndDate) {
			return fmt.Errorf("join bet %s past end date: %w", betID, ErrBetClosed)
		}

		if amount < b.MinEntry || amount > b.MaxEntry {
			return fmt.Errorf("%w: amount %d not in [%d, %d]", ErrAmountOutOfRange, amount, b.MinEntry, b.MaxEntry)
		}

		if !containsOutcome(b.OutcomeOptions, selectedOutcome) {
			return fmt.Errorf("%w: %q", ErrInvalidOutcome, selectedOutcome)
		}

		_, err = e.accounts.DebitTx(tx, userID, amount, entries.TypeStake, "bet", betID)
		if err != nil {
			return fmt.Errorf("debit stake: %w", err)
		}

		err = e.bets.InsertParticipant(tx, p)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}

		err = e.bets.AddToPot(tx, betID, amount)
		if err != nil {
			return fmt.Errorf("add to pot: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("join bet: %w", err)
	}

	slog.Info("bet joined",
		"bet_id", betID, "user_id", userID,
		"amount", amount, "outcome", selectedOutcome)

	return p, nil
}

// CloseBet moves an open bet to closed. Closing a closed or settled bet
// fails with ErrInvalidStateTransition.
func (e *Engine) CloseBet(ctx context.Context, betID string) error {
	err := pgutils.WithTxRetry(ctx, e.db, func(tx *sql.Tx) error {
		b, err := e.bets.LockAndGet(tx, betID)
		if err != nil {
			return fmt.Errorf("lock bet: %w", err)
		}

		if b.Status != bets.StatusOpen {
			return fmt.Errorf("close bet %s in status %q: %w", betID, b.Status, ErrInvalidStateTransition)
		}

		err = e.bets.UpdateStatus(tx, betID, bets.StatusOpen, bets.StatusClosed)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("close bet: %w", err)
	}

	slog.Info("bet closed", "bet_id", betID)

	return nil
}
