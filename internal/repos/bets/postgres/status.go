package bets

import (
	"database/sql"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/bets"
)

func (r *betsRepo) UpdateStatus(tx *sql.Tx, id string, from, to bets.Status) error {
	res, err := tx.Exec(`
		UPDATE bets
		SET status = $3
		WHERE id = $1
		  AND status = $2
	`, id, from, to)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update status: bet %s not in status %q", id, from)
	}

	return nil
}

func (r *betsRepo) MarkSettled(tx *sql.Tx, id, correctOutcome string) error {
	res, err := tx.Exec(`
		UPDATE bets
		SET status = $3, correct_outcome = $2
		WHERE id = $1
		  AND status = $4
	`, id, correctOutcome, bets.StatusSettled, bets.StatusClosed)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("mark settled: bet %s not closed", id)
	}

	return nil
}
