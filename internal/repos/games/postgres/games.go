package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/games"
)

func (r *gamesRepo) Insert(tx *sql.Tx, g *games.Game) error {
	err := tx.QueryRow(`
		INSERT INTO games (id, creator_id, title, description, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, g.ID, g.CreatorID, g.Title, g.Description, g.EndDate, g.Status).Scan(&g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	for i := range g.Lines {
		line := &g.Lines[i]
		line.Index = i

		_, err = tx.Exec(`
			INSERT INTO game_lines (
				game_id, line_index, title,
				option_a_title, option_a_odds, option_a_multiplier,
				option_b_title, option_b_odds, option_b_multiplier
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, g.ID, line.Index, line.Title,
			line.Options[0].Title, line.Options[0].Odds, line.Options[0].Multiplier,
			line.Options[1].Title, line.Options[1].Odds, line.Options[1].Multiplier,
		)
		if err != nil {
			return fmt.Errorf("insert line %d: %w", i, err)
		}
	}

	return nil
}

func (r *gamesRepo) Get(ctx context.Context, id string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, creator_id, title, description, end_date, status, total_pot, created_at
		FROM games
		WHERE id = $1
	`, id)

	g, err := scanGame(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}

	g.Lines, err = collectLines(rows)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (r *gamesRepo) LockAndGet(tx *sql.Tx, id string) (*games.Game, error) {
	row := tx.QueryRow(`
		SELECT id, creator_id, title, description, end_date, status, total_pot, created_at
		FROM games
		WHERE id = $1
		FOR UPDATE
	`, id)

	g, err := scanGame(row)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}

	g.Lines, err = collectLines(rows)
	if err != nil {
		return nil, err
	}

	return g, nil
}

const lineQuery = `
	SELECT line_index, title,
	       option_a_title, option_a_odds, option_a_multiplier,
	       option_b_title, option_b_odds, option_b_multiplier,
	       total_pot, winning_option
	FROM game_lines
	WHERE game_id = $1
	ORDER BY line_index
`

func scanGame(row *sql.Row) (*games.Game, error) {
	var g games.Game

	err := row.Scan(
		&g.ID, &g.CreatorID, &g.Title, &g.Description,
		&g.EndDate, &g.Status, &g.TotalPot, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("scan game: %w", err)
	}

	return &g, nil
}

func collectLines(rows *sql.Rows) ([]games.Line, error) {
	defer rows.Close()

	var out []games.Line

	for rows.Next() {
		var (
			line   games.Line
			winner sql.NullInt64
		)

		err := rows.Scan(
			&line.Index, &line.Title,
			&line.Options[0].Title, &line.Options[0].Odds, &line.Options[0].Multiplier,
			&line.Options[1].Title, &line.Options[1].Odds, &line.Options[1].Multiplier,
			&line.TotalPot, &winner,
		)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}

		if winner.Valid {
			w := int(winner.Int64)
			line.WinningOption = &w
		}

		out = append(out, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}

	return out, nil
}
