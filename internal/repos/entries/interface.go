// Package entries records every balance mutation as an append-only ledger
// entry, so the books can be audited: a user's balance must equal the sum
// of their entries.
package entries

import (
	"context"
	"database/sql"
	"time"
)

// Entry types.
const (
	TypeDeposit = "deposit"
	TypeStake   = "stake"
	TypePayout  = "payout"
	TypeRefund  = "refund"
)

// Entry is one recorded balance mutation. Amount is signed: debits are
// negative, credits positive. RefType/RefID point at what caused it
// ("bet"/"game" plus record id, or "deposit").
type Entry struct {
	ID        string
	UserID    uint64
	Amount    int64
	EntryType string
	RefType   string
	RefID     string
	CreatedAt time.Time
}

type Entries interface {
	Insert(tx *sql.Tx, e Entry) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]Entry, error)
	SumByUser(ctx context.Context, userID uint64) (int64, error)
}
