package bets

import (
	"database/sql"
	"fmt"
)

func (r *betsRepo) AddToPot(tx *sql.Tx, id string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE bets
		SET total_pot = total_pot + $2
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return fmt.Errorf("add to pot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("add to pot: bet %s missing", id)
	}

	return nil
}
