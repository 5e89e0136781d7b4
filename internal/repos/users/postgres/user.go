package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/betterbets/betterbets/internal/repos/users"
)

func (r *usersRepo) Exists(tx *sql.Tx, userID uint64) error {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return users.ErrUserNotFound
	}

	return nil
}

func (r *usersRepo) Get(ctx context.Context, userID uint64) (*users.User, error) {
	u := users.User{ID: userID}

	err := r.db.QueryRowContext(ctx, `
		SELECT email, username, password_hash, balance, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.Email, &u.Username, &u.PasswordHash, &u.Balance, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}

		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}
