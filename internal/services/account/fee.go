package account

import "errors"

// Deposit policy bounds, minor units.
const (
	MinDeposit = 500     // $5.00
	MaxDeposit = 100_000 // $1000.00
)

const (
	feePermille = 29 // 2.9%
	feeFixed    = 30 // $0.30
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// ProcessingFee returns the card-processing fee for a deposit of the given
// amount in cents: 2.9% (rounded half up) plus a 30 cent fixed part. The
// fee is informational; it is charged by the processor, not debited from
// the user's balance.
func ProcessingFee(amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}

	return (amount*feePermille + 500) / 1000 + feeFixed, nil
}
