package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/betterbets/betterbets/internal/infra/pgtestutil"
	"github.com/betterbets/betterbets/internal/repos/entries"
	pgentries "github.com/betterbets/betterbets/internal/repos/entries/postgres"
	"github.com/betterbets/betterbets/internal/repos/users"
)

func TestService_Register(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	id, err := svc.Register(ctx, "alice@example.com", "alice", "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bal, err := svc.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal != 0 {
		t.Fatalf("new user balance: want 0, got %d", bal)
	}

	// Same email again is a conflict.
	_, err = svc.Register(ctx, "alice@example.com", "alice2", "s3cret")
	if !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got: %v", err)
	}

	// Missing fields are rejected before touching the store.
	_, err = svc.Register(ctx, "", "bob", "pw")
	if !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("expected ErrInvalidRegistration, got: %v", err)
	}
}

func TestService_Deposit_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		amount      int64
		wantFee     int64
		wantBalance int64
		wantErr     bool // true -> expect ErrInvalidAmount
	}{
		{name: "min_allowed", amount: 500, wantFee: 45, wantBalance: 500},
		{name: "hundred_dollars", amount: 10_000, wantFee: 320, wantBalance: 10_000},
		{name: "max_allowed", amount: 100_000, wantFee: 2_930, wantBalance: 100_000},
		{name: "below_min", amount: 499, wantErr: true},
		{name: "above_max", amount: 100_001, wantErr: true},
		{name: "zero", amount: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			svc := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			id, err := svc.Register(ctx, "dep@example.com", "dep", "pw")
			if err != nil {
				t.Fatalf("register: %v", err)
			}

			balance, fee, err := svc.Deposit(ctx, id, tt.amount)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got: %v", err)
				}

				// Balance untouched on rejected deposits.
				got, gerr := svc.GetBalance(ctx, id)
				if gerr != nil {
					t.Fatalf("get balance: %v", gerr)
				}
				if got != 0 {
					t.Fatalf("balance after rejected deposit: want 0, got %d", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("deposit: %v", err)
			}
			if fee != tt.wantFee {
				t.Fatalf("fee: want %d, got %d", tt.wantFee, fee)
			}
			// The fee is informational: the full amount is credited.
			if balance != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, balance)
			}
		})
	}
}

func TestService_DebitCredit_Ledger(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	id, err := svc.Register(ctx, "books@example.com", "books", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err = svc.Deposit(ctx, id, 10_000)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}

	bal, err := svc.Debit(ctx, id, 4_000, entries.TypeStake, "bet", "bet-1")
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if bal != 6_000 {
		t.Fatalf("after debit: want 6000, got %d", bal)
	}

	bal, err = svc.Credit(ctx, id, 1_500, entries.TypePayout, "bet", "bet-1")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if bal != 7_500 {
		t.Fatalf("after credit: want 7500, got %d", bal)
	}

	// Overdraft fails with no partial effect.
	_, err = svc.Debit(ctx, id, 8_000, entries.TypeStake, "bet", "bet-2")
	if !errors.Is(err, users.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}

	got, err := svc.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if got != 7_500 {
		t.Fatalf("balance after failed debit: want 7500, got %d", got)
	}

	// Every mutation left a ledger entry, and the entries sum to the balance.
	ledger, err := svc.Ledger(ctx, id, 10)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(ledger) != 3 {
		t.Fatalf("want 3 ledger entries, got %d", len(ledger))
	}

	sum, err := pgentries.New(db).SumByUser(ctx, id)
	if err != nil {
		t.Fatalf("sum entries: %v", err)
	}
	if sum != got {
		t.Fatalf("ledger sum %d does not match balance %d", sum, got)
	}
}

func TestService_DebitCredit_RejectNonPositive(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	id, err := svc.Register(ctx, "np@example.com", "np", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.Debit(ctx, id, 0, entries.TypeStake, "bet", "b")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero debit: expected ErrInvalidAmount, got: %v", err)
	}

	_, err = svc.Credit(ctx, id, -5, entries.TypePayout, "bet", "b")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative credit: expected ErrInvalidAmount, got: %v", err)
	}
}
