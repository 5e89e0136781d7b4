package api

import (
	"errors"
	"net/http"

	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/repos/bets"
	"github.com/betterbets/betterbets/internal/repos/games"
	"github.com/betterbets/betterbets/internal/repos/users"
	"github.com/betterbets/betterbets/internal/services/account"
	"github.com/betterbets/betterbets/internal/services/wager"
)

// writeWagerError maps engine and account errors onto HTTP statuses.
// Anything unmapped is a 500 with a generic message so internals do not
// leak to clients.
func writeWagerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wager.ErrInvalidBetSpec),
		errors.Is(err, wager.ErrInvalidGameSpec),
		errors.Is(err, wager.ErrAmountOutOfRange),
		errors.Is(err, wager.ErrInvalidOutcome),
		errors.Is(err, account.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, bets.ErrBetNotFound),
		errors.Is(err, games.ErrGameNotFound),
		errors.Is(err, games.ErrLineNotFound),
		errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, users.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, wager.ErrBetClosed),
		errors.Is(err, wager.ErrInvalidStateTransition),
		errors.Is(err, wager.ErrAlreadySettled):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pgutils.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store busy, retry")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
