package api

import (
	"errors"
	"net/http"

	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/repos/users"
	"github.com/betterbets/betterbets/internal/services/account"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /register.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.accounts.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidRegistration):
			writeError(w, http.StatusBadRequest, "email, username and password are required")
			return
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
			return
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{"userId": id})
}

// GetBalanceHandler handles GET /user/{userId}/balance.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	bal, err := h.accounts.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": formatCents(bal),
	})
}

type depositRequest struct {
	Amount string `json:"amount"`
}

// DepositHandler handles POST /user/{userId}/deposit.
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req depositRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmountCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, fee, err := h.accounts.Deposit(r.Context(), userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "deposit must be between 5.00 and 1000.00")
			return
		case errors.Is(err, users.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
			return
		case errors.Is(err, pgutils.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store busy, retry")
			return
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	depositsTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": formatCents(balance),
		"fee":     formatCents(fee),
	})
}

// GetLedgerHandler handles GET /user/{userId}/ledger.
func (h *HandlerProvider) GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	list, err := h.accounts.Ledger(r.Context(), userID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type entryView struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
		Type   string `json:"type"`
		Ref    string `json:"ref,omitempty"`
	}

	out := make([]entryView, 0, len(list))
	for _, e := range list {
		ref := e.RefType
		if e.RefID != "" {
			ref += ":" + e.RefID
		}

		out = append(out, entryView{
			ID:     e.ID,
			Amount: formatCents(e.Amount),
			Type:   e.EntryType,
			Ref:    ref,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"userId": userID, "entries": out})
}
