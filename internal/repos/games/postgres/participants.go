package games

import (
	"database/sql"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/games"
)

func (r *gamesRepo) InsertParticipant(tx *sql.Tx, p *games.LineParticipation) error {
	err := tx.QueryRow(`
		INSERT INTO line_participants (id, game_id, line_index, user_id, amount, option_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, p.ID, p.GameID, p.LineIndex, p.UserID, p.Amount, p.OptionIndex).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert line participant: %w", err)
	}

	return nil
}

func (r *gamesRepo) ListLineParticipantsTx(tx *sql.Tx, gameID string, lineIndex int) ([]games.LineParticipation, error) {
	rows, err := tx.Query(`
		SELECT id, game_id, line_index, user_id, amount, option_index, created_at
		FROM line_participants
		WHERE game_id = $1
		  AND line_index = $2
		ORDER BY id
	`, gameID, lineIndex)
	if err != nil {
		return nil, fmt.Errorf("list line participants: %w", err)
	}
	defer rows.Close()

	var out []games.LineParticipation

	for rows.Next() {
		var p games.LineParticipation

		err = rows.Scan(&p.ID, &p.GameID, &p.LineIndex, &p.UserID, &p.Amount, &p.OptionIndex, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan line participant: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line participants: %w", err)
	}

	return out, nil
}
