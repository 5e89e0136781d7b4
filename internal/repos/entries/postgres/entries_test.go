package entries

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/betterbets/betterbets/internal/infra/ids"
	"github.com/betterbets/betterbets/internal/infra/pgtestutil"
	"github.com/betterbets/betterbets/internal/repos/entries"
)

func seedUser(t *testing.T, db *sql.DB, email string) uint64 {
	t.Helper()

	var id uint64

	err := db.QueryRow(`
		INSERT INTO users (email, username, password_hash, balance)
		VALUES ($1, $2, 'x', 0)
		RETURNING id
	`, email, email).Scan(&id)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return id
}

func insertEntry(t *testing.T, db *sql.DB, repo *entriesRepo, e entries.Entry) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	err = repo.Insert(tx, e)
	if err != nil {
		_ = tx.Rollback()
		t.Fatalf("insert entry: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestEntries_InsertListSum(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := seedUser(t, db, "ledger@example.com")
	otherID := seedUser(t, db, "other@example.com")

	// Two entries for the user, one for someone else.
	insertEntry(t, db, repo, entries.Entry{
		ID: ids.New(), UserID: userID, Amount: 5_000,
		EntryType: entries.TypeDeposit, RefType: "deposit",
	})
	insertEntry(t, db, repo, entries.Entry{
		ID: ids.New(), UserID: userID, Amount: -2_000,
		EntryType: entries.TypeStake, RefType: "bet", RefID: "bet-1",
	})
	insertEntry(t, db, repo, entries.Entry{
		ID: ids.New(), UserID: otherID, Amount: 1_000,
		EntryType: entries.TypeDeposit, RefType: "deposit",
	})

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	list, err := repo.ListByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 entries, got %d", len(list))
	}

	// Newest first (ids are lexicographically sortable by time).
	if list[0].Amount != -2_000 || list[0].EntryType != entries.TypeStake {
		t.Fatalf("unexpected newest entry: %+v", list[0])
	}
	if list[0].RefType != "bet" || list[0].RefID != "bet-1" {
		t.Fatalf("unexpected ref on newest entry: %+v", list[0])
	}
	if list[1].Amount != 5_000 || list[1].EntryType != entries.TypeDeposit {
		t.Fatalf("unexpected oldest entry: %+v", list[1])
	}

	sum, err := repo.SumByUser(ctx, userID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 3_000 {
		t.Fatalf("sum: want 3000, got %d", sum)
	}
}

func TestEntries_ListByUser_Limit(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := seedUser(t, db, "many@example.com")

	for range 5 {
		insertEntry(t, db, repo, entries.Entry{
			ID: ids.New(), UserID: userID, Amount: 100,
			EntryType: entries.TypeDeposit, RefType: "deposit",
		})
	}

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	list, err := repo.ListByUser(ctx, userID, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("want 3 entries with limit, got %d", len(list))
	}
}

func TestEntries_SumByUser_Empty(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	userID := seedUser(t, db, "empty@example.com")

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	sum, err := repo.SumByUser(ctx, userID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 0 {
		t.Fatalf("sum of no entries: want 0, got %d", sum)
	}
}
