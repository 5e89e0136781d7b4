package users

import (
	"database/sql"
	"testing"
)

// seedUser inserts a user with the given balance and returns the
// generated id.
func seedUser(t *testing.T, db *sql.DB, email string, balance int64) uint64 {
	t.Helper()

	var id uint64

	err := db.QueryRow(`
		INSERT INTO users (email, username, password_hash, balance)
		VALUES ($1, $2, 'x', $3)
		RETURNING id
	`, email, email, balance).Scan(&id)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return id
}
