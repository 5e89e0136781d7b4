package bets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/betterbets/betterbets/internal/repos/bets"
)

const betColumns = `
	id, creator_id, title, description, is_private,
	min_entry, max_entry, end_date, status, total_pot,
	outcome_options, correct_outcome, created_at
`

func (r *betsRepo) Insert(tx *sql.Tx, b *bets.Bet) error {
	err := tx.QueryRow(`
		INSERT INTO bets (
			id, creator_id, title, description, is_private,
			min_entry, max_entry, end_date, status, outcome_options
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::text[])
		RETURNING created_at
	`, b.ID, b.CreatorID, b.Title, b.Description, b.IsPrivate,
		b.MinEntry, b.MaxEntry, b.EndDate, b.Status, pq.Array(b.OutcomeOptions),
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}

	return nil
}

func (r *betsRepo) Get(ctx context.Context, id string) (*bets.Bet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+betColumns+` FROM bets WHERE id = $1`, id)

	return scanBet(row)
}

func (r *betsRepo) LockAndGet(tx *sql.Tx, id string) (*bets.Bet, error) {
	row := tx.QueryRow(
		`SELECT `+betColumns+` FROM bets WHERE id = $1 FOR UPDATE`, id)

	return scanBet(row)
}

func scanBet(row *sql.Row) (*bets.Bet, error) {
	var (
		b       bets.Bet
		options pq.StringArray
		correct sql.NullString
	)

	err := row.Scan(
		&b.ID, &b.CreatorID, &b.Title, &b.Description, &b.IsPrivate,
		&b.MinEntry, &b.MaxEntry, &b.EndDate, &b.Status, &b.TotalPot,
		&options, &correct, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bets.ErrBetNotFound
		}

		return nil, fmt.Errorf("scan bet: %w", err)
	}

	b.OutcomeOptions = []string(options)
	if correct.Valid {
		b.CorrectOutcome = &correct.String
	}

	return &b, nil
}
