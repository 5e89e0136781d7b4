package games

import (
	"database/sql"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/games"
)

func (r *gamesRepo) AddToLinePot(tx *sql.Tx, gameID string, lineIndex int, amount int64) error {
	res, err := tx.Exec(`
		UPDATE game_lines
		SET total_pot = total_pot + $3
		WHERE game_id = $1
		  AND line_index = $2
	`, gameID, lineIndex, amount)
	if err != nil {
		return fmt.Errorf("add to line pot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return games.ErrLineNotFound
	}

	_, err = tx.Exec(`
		UPDATE games
		SET total_pot = total_pot + $2
		WHERE id = $1
	`, gameID, amount)
	if err != nil {
		return fmt.Errorf("add to game pot: %w", err)
	}

	return nil
}
