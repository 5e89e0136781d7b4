package wager

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/repos/bets"
	"github.com/betterbets/betterbets/internal/repos/entries"
	"github.com/betterbets/betterbets/internal/repos/games"
)

// Settlement summarizes one settlement run.
type Settlement struct {
	Winners  int
	Refunded int
	PaidOut  int64
}

// SettleBet records the correct outcome and distributes the pot.
//
// Winners are paid parimutuel: amount * totalPot / winningPool, integer
// division, so each winner gets back their stake plus a proportional share
// of the losers' stakes. Sub-cent remainders stay in the pot. If nobody
// picked the correct outcome, every participant is refunded their stake.
//
// The bet must be closed; an open bet past its end date is auto-closed
// first. Settling twice fails with ErrAlreadySettled and changes nothing.
func (e *Engine) SettleBet(ctx context.Context, betID, correctOutcome string) (*Settlement, error) {
	var sum Settlement

	err := pgutils.WithTxRetry(ctx, e.db, func(tx *sql.Tx) error {
		sum = Settlement{}

		b, err := e.bets.LockAndGet(tx, betID)
		if err != nil {
			return fmt.Errorf("lock bet: %w", err)
		}

		switch b.Status {
		case bets.StatusSettled:
			return fmt.Errorf("settle bet %s: %w", betID, ErrAlreadySettled)
		case bets.StatusOpen:
			if !e.clock.Now().After(b.EndDate) {
				return fmt.Errorf("settle bet %s still open: %w", betID, ErrInvalidStateTransition)
			}

			err = e.bets.UpdateStatus(tx, betID, bets.StatusOpen, bets.StatusClosed)
			if err != nil {
				return fmt.Errorf("auto-close: %w", err)
			}
		case bets.StatusClosed:
		}

		if !containsOutcome(b.OutcomeOptions, correctOutcome) {
			return fmt.Errorf("%w: %q", ErrInvalidOutcome, correctOutcome)
		}

		parts, err := e.bets.ListParticipantsTx(tx, betID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}

		var winningPool int64
		for _, p := range parts {
			if p.SelectedOutcome == correctOutcome {
				winningPool += p.Amount
			}
		}

		if winningPool == 0 {
			// Nobody picked the correct outcome: give every stake back.
			for _, p := range parts {
				_, err = e.accounts.CreditTx(tx, p.UserID, p.Amount, entries.TypeRefund, "bet", betID)
				if err != nil {
					return fmt.Errorf("refund user %d: %w", p.UserID, err)
				}

				sum.Refunded++
				sum.PaidOut += p.Amount
			}
		} else {
			for _, p := range parts {
				if p.SelectedOutcome != correctOutcome {
					continue
				}

				payout := p.Amount * b.TotalPot / winningPool

				_, err = e.accounts.CreditTx(tx, p.UserID, payout, entries.TypePayout, "bet", betID)
				if err != nil {
					return fmt.Errorf("pay user %d: %w", p.UserID, err)
				}

				sum.Winners++
				sum.PaidOut += payout
			}
		}

		err = e.bets.MarkSettled(tx, betID, correctOutcome)
		if err != nil {
			return fmt.Errorf("mark settled: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settle bet: %w", err)
	}

	slog.Info("bet settled",
		"bet_id", betID, "outcome", correctOutcome,
		"winners", sum.Winners, "refunded", sum.Refunded, "paid_out", sum.PaidOut)

	return &sum, nil
}

// SettleGame records the winning option of every line and distributes each
// line pot with the same parimutuel policy as SettleBet, all in one
// transaction. winningOptions holds one option index (0 or 1) per line.
func (e *Engine) SettleGame(ctx context.Context, gameID string, winningOptions []int) (*Settlement, error) {
	var sum Settlement

	err := pgutils.WithTxRetry(ctx, e.db, func(tx *sql.Tx) error {
		sum = Settlement{}

		g, err := e.games.LockAndGet(tx, gameID)
		if err != nil {
			return fmt.Errorf("lock game: %w", err)
		}

		switch g.Status {
		case games.StatusSettled:
			return fmt.Errorf("settle game %s: %w", gameID, ErrAlreadySettled)
		case games.StatusOpen:
			if !e.clock.Now().After(g.EndDate) {
				return fmt.Errorf("settle game %s still open: %w", gameID, ErrInvalidStateTransition)
			}

			err = e.games.UpdateStatus(tx, gameID, games.StatusOpen, games.StatusClosed)
			if err != nil {
				return fmt.Errorf("auto-close: %w", err)
			}
		case games.StatusClosed:
		}

		if len(winningOptions) != len(g.Lines) {
			return fmt.Errorf("%w: need %d winning options, got %d", ErrInvalidOutcome, len(g.Lines), len(winningOptions))
		}

		for _, w := range winningOptions {
			if w != 0 && w != 1 {
				return fmt.Errorf("%w: option index %d", ErrInvalidOutcome, w)
			}
		}

		for i, line := range g.Lines {
			winner := winningOptions[i]

			parts, err := e.games.ListLineParticipantsTx(tx, gameID, i)
			if err != nil {
				return fmt.Errorf("list line %d participants: %w", i, err)
			}

			var winningPool int64
			for _, p := range parts {
				if p.OptionIndex == winner {
					winningPool += p.Amount
				}
			}

			if winningPool == 0 {
				for _, p := range parts {
					_, err = e.accounts.CreditTx(tx, p.UserID, p.Amount, entries.TypeRefund, "game", gameID)
					if err != nil {
						return fmt.Errorf("refund user %d: %w", p.UserID, err)
					}

					sum.Refunded++
					sum.PaidOut += p.Amount
				}
			} else {
				for _, p := range parts {
					if p.OptionIndex != winner {
						continue
					}

					payout := p.Amount * line.TotalPot / winningPool

					_, err = e.accounts.CreditTx(tx, p.UserID, payout, entries.TypePayout, "game", gameID)
					if err != nil {
						return fmt.Errorf("pay user %d: %w", p.UserID, err)
					}

					sum.Winners++
					sum.PaidOut += payout
				}
			}

			err = e.games.MarkLineWinner(tx, gameID, i, winner)
			if err != nil {
				return fmt.Errorf("mark line %d winner: %w", i, err)
			}
		}

		err = e.games.MarkSettled(tx, gameID)
		if err != nil {
			return fmt.Errorf("mark settled: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settle game: %w", err)
	}

	slog.Info("game settled",
		"game_id", gameID,
		"winners", sum.Winners, "refunded", sum.Refunded, "paid_out", sum.PaidOut)

	return &sum, nil
}
