package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/betterbets/betterbets/internal/repos/bets"
	"github.com/betterbets/betterbets/internal/services/wager"
)

type createBetRequest struct {
	CreatorID      uint64   `json:"creatorId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	IsPrivate      bool     `json:"isPrivate"`
	MinEntry       string   `json:"minEntry"`
	MaxEntry       string   `json:"maxEntry"`
	EndDate        string   `json:"endDate"`
	OutcomeOptions []string `json:"outcomeOptions"`
}

type betView struct {
	ID             string    `json:"id"`
	CreatorID      uint64    `json:"creatorId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	IsPrivate      bool      `json:"isPrivate"`
	MinEntry       string    `json:"minEntry"`
	MaxEntry       string    `json:"maxEntry"`
	EndDate        time.Time `json:"endDate"`
	Status         string    `json:"status"`
	TotalPot       string    `json:"totalPot"`
	OutcomeOptions []string  `json:"outcomeOptions"`
	CorrectOutcome *string   `json:"correctOutcome,omitempty"`
}

func betToView(b *bets.Bet) betView {
	return betView{
		ID:             b.ID,
		CreatorID:      b.CreatorID,
		Title:          b.Title,
		Description:    b.Description,
		IsPrivate:      b.IsPrivate,
		MinEntry:       formatCents(b.MinEntry),
		MaxEntry:       formatCents(b.MaxEntry),
		EndDate:        b.EndDate,
		Status:         string(b.Status),
		TotalPot:       formatCents(b.TotalPot),
		OutcomeOptions: b.OutcomeOptions,
		CorrectOutcome: b.CorrectOutcome,
	}
}

// CreateBetHandler handles POST /bets.
func (h *HandlerProvider) CreateBetHandler(w http.ResponseWriter, r *http.Request) {
	var req createBetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	minEntry, err := parseAmountCents(req.MinEntry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "minEntry: "+err.Error())
		return
	}

	maxEntry, err := parseAmountCents(req.MaxEntry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "maxEntry: "+err.Error())
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be RFC3339")
		return
	}

	b, err := h.engine.CreateBet(r.Context(), wager.CreateBetParams{
		CreatorID:      req.CreatorID,
		Title:          req.Title,
		Description:    req.Description,
		IsPrivate:      req.IsPrivate,
		MinEntry:       minEntry,
		MaxEntry:       maxEntry,
		EndDate:        endDate,
		OutcomeOptions: req.OutcomeOptions,
	})
	if err != nil {
		writeWagerError(w, err)
		return
	}

	betsCreatedTotal.Inc()

	writeJSON(w, http.StatusCreated, betToView(b))
}

// GetBetHandler handles GET /bets/{betId}.
func (h *HandlerProvider) GetBetHandler(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betId")

	b, parts, err := h.engine.GetBet(r.Context(), betID)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	type participantView struct {
		UserID          uint64 `json:"userId"`
		Amount          string `json:"amount"`
		SelectedOutcome string `json:"selectedOutcome"`
	}

	pv := make([]participantView, 0, len(parts))
	for _, p := range parts {
		pv = append(pv, participantView{
			UserID:          p.UserID,
			Amount:          formatCents(p.Amount),
			SelectedOutcome: p.SelectedOutcome,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bet":          betToView(b),
		"participants": pv,
	})
}

type joinBetRequest struct {
	UserID          uint64 `json:"userId"`
	Amount          string `json:"amount"`
	SelectedOutcome string `json:"selectedOutcome"`
}

// JoinBetHandler handles POST /bets/{betId}/join.
func (h *HandlerProvider) JoinBetHandler(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betId")

	var req joinBetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmountCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.engine.JoinBet(r.Context(), betID, req.UserID, amount, req.SelectedOutcome)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	stakesTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"participationId": p.ID,
		"betId":           p.BetID,
		"userId":          p.UserID,
		"amount":          formatCents(p.Amount),
		"selectedOutcome": p.SelectedOutcome,
	})
}

// CloseBetHandler handles POST /bets/{betId}/close.
func (h *HandlerProvider) CloseBetHandler(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betId")

	err := h.engine.CloseBet(r.Context(), betID)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"betId": betID, "status": string(bets.StatusClosed)})
}

type settleBetRequest struct {
	CorrectOutcome string `json:"correctOutcome"`
}

// SettleBetHandler handles POST /bets/{betId}/settle.
func (h *HandlerProvider) SettleBetHandler(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betId")

	var req settleBetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.engine.SettleBet(r.Context(), betID, req.CorrectOutcome)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	settlementsTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"betId":          betID,
		"correctOutcome": req.CorrectOutcome,
		"winners":        sum.Winners,
		"refunded":       sum.Refunded,
		"paidOut":        formatCents(sum.PaidOut),
	})
}
