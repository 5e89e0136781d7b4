package games

import (
	"database/sql"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/games"
)

func (r *gamesRepo) UpdateStatus(tx *sql.Tx, id string, from, to games.Status) error {
	res, err := tx.Exec(`
		UPDATE games
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
		return fmt.Errorf("update status: game %s not in status %q", id, from)
	}

	return nil
}

func (r *gamesRepo) MarkLineWinner(tx *sql.Tx, gameID string, lineIndex, winningOption int) error {
	res, err := tx.Exec(`
		UPDATE game_lines
		SET winning_option = $3
		WHERE game_id = $1
		  AND line_index = $2
	`, gameID, lineIndex, winningOption)
	if err != nil {
		return fmt.Errorf("mark line winner: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return games.ErrLineNotFound
	}

	return nil
}

func (r *gamesRepo) MarkSettled(tx *sql.Tx, id string) error {
	res, err := tx.Exec(`
		UPDATE games
		SET status = $2
		WHERE id = $1
		  AND status = $3
	`, id, games.StatusSettled, games.StatusClosed)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("mark settled: game %s not closed", id)
	}

	return nil
}
