package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/betterbets/betterbets/internal/repos/games"
	"github.com/betterbets/betterbets/internal/services/wager"
)

type gameOptionRequest struct {
	Title      string  `json:"title"`
	Odds       float64 `json:"odds"`
	Multiplier float64 `json:"multiplier"`
}

type gameLineRequest struct {
	Title   string              `json:"title"`
	Options []gameOptionRequest `json:"options"`
}

type createGameRequest struct {
	CreatorID   uint64            `json:"creatorId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	EndDate     string            `json:"endDate"`
	Lines       []gameLineRequest `json:"lines"`
}

type gameOptionView struct {
	Title      string  `json:"title"`
	Odds       float64 `json:"odds"`
	Multiplier float64 `json:"multiplier"`
}

type gameLineView struct {
	Index         int               `json:"index"`
	Title         string            `json:"title"`
	Options       [2]gameOptionView `json:"options"`
	TotalPot      string            `json:"totalPot"`
	WinningOption *int              `json:"winningOption,omitempty"`
}

type gameView struct {
	ID          string         `json:"id"`
	CreatorID   uint64         `json:"creatorId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	EndDate     time.Time      `json:"endDate"`
	Status      string         `json:"status"`
	TotalPot    string         `json:"totalPot"`
	Lines       []gameLineView `json:"lines"`
}

func gameToView(g *games.Game) gameView {
	lines := make([]gameLineView, 0, len(g.Lines))
	for _, l := range g.Lines {
		lines = append(lines, gameLineView{
			Index: l.Index,
			Title: l.Title,
			Options: [2]gameOptionView{
				{Title: l.Options[0].Title, Odds: l.Options[0].Odds, Multiplier: l.Options[0].Multiplier},
				{Title: l.Options[1].Title, Odds: l.Options[1].Odds, Multiplier: l.Options[1].Multiplier},
			},
			TotalPot:      formatCents(l.TotalPot),
			WinningOption: l.WinningOption,
		})
	}

	return gameView{
		ID:          g.ID,
		CreatorID:   g.CreatorID,
		Title:       g.Title,
		Description: g.Description,
		EndDate:     g.EndDate,
		Status:      string(g.Status),
		TotalPot:    formatCents(g.TotalPot),
		Lines:       lines,
	}
}

// CreateGameHandler handles POST /games.
func (h *HandlerProvider) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be RFC3339")
		return
	}

	lines := make([]wager.LineParams, 0, len(req.Lines))
	for _, l := range req.Lines {
		opts := make([]wager.OptionParams, 0, len(l.Options))
		for _, o := range l.Options {
			opts = append(opts, wager.OptionParams{Title: o.Title, Odds: o.Odds, Multiplier: o.Multiplier})
		}

		lines = append(lines, wager.LineParams{Title: l.Title, Options: opts})
	}

	g, err := h.engine.CreateGame(r.Context(), wager.CreateGameParams{
		CreatorID:   req.CreatorID,
		Title:       req.Title,
		Description: req.Description,
		EndDate:     endDate,
		Lines:       lines,
	})
	if err != nil {
		writeWagerError(w, err)
		return
	}

	gamesCreatedTotal.Inc()

	writeJSON(w, http.StatusCreated, gameToView(g))
}

// GetGameHandler handles GET /games/{gameId}.
func (h *HandlerProvider) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")

	g, err := h.engine.GetGame(r.Context(), gameID)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, gameToView(g))
}

type joinLineRequest struct {
	UserID      uint64 `json:"userId"`
	Amount      string `json:"amount"`
	OptionIndex int    `json:"optionIndex"`
}

// JoinLineHandler handles POST /games/{gameId}/lines/{lineIndex}/join.
func (h *HandlerProvider) JoinLineHandler(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")

	lineIndex, err := strconv.Atoi(chi.URLParam(r, "lineIndex"))
	if err != nil || lineIndex < 0 {
		writeError(w, http.StatusBadRequest, "invalid lineIndex in path")
		return
	}

	var req joinLineRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmountCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.engine.JoinLine(r.Context(), gameID, lineIndex, req.UserID, amount, req.OptionIndex)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	stakesTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"participationId": p.ID,
		"gameId":          p.GameID,
		"lineIndex":       p.LineIndex,
		"userId":          p.UserID,
		"amount":          formatCents(p.Amount),
		"optionIndex":     p.OptionIndex,
	})
}

// CloseGameHandler handles POST /games/{gameId}/close.
func (h *HandlerProvider) CloseGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")

	err := h.engine.CloseGame(r.Context(), gameID)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"gameId": gameID, "status": string(games.StatusClosed)})
}

type settleGameRequest struct {
	WinningOptions []int `json:"winningOptions"`
}

// SettleGameHandler handles POST /games/{gameId}/settle.
func (h *HandlerProvider) SettleGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")

	var req settleGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.engine.SettleGame(r.Context(), gameID, req.WinningOptions)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	settlementsTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"gameId":   gameID,
		"winners":  sum.Winners,
		"refunded": sum.Refunded,
		"paidOut":  formatCents(sum.PaidOut),
	})
}
