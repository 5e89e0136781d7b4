package bets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/bets"
)

func (r *betsRepo) InsertParticipant(tx *sql.Tx, p *bets.Participation) error {
	err := tx.QueryRow(`
		INSERT INTO bet_participants (id, bet_id, user_id, amount, selected_outcome)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, p.ID, p.BetID, p.UserID, p.Amount, p.SelectedOutcome).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

const participantQuery = `
	SELECT id, bet_id, user_id, amount, selected_outcome, created_at
	FROM bet_participants
	WHERE bet_id = $1
	ORDER BY id
`

func (r *betsRepo) ListParticipants(ctx context.Context, betID string) ([]bets.Participation, error) {
	rows, err := r.db.QueryContext(ctx, participantQuery, betID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return collectParticipants(rows)
}

func (r *betsRepo) ListParticipantsTx(tx *sql.Tx, betID string) ([]bets.Participation, error) {
	rows, err := tx.Query(participantQuery, betID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return collectParticipants(rows)
}

func collectParticipants(rows *sql.Rows) ([]bets.Participation, error) {
	defer rows.Close()

	var out []bets.Participation

	for rows.Next() {
		var p bets.Participation

		err := rows.Scan(&p.ID, &p.BetID, &p.UserID, &p.Amount, &p.SelectedOutcome, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	return out, nil
}
