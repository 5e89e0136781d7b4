package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/betterbets/betterbets/internal/services/account"
	"github.com/betterbets/betterbets/internal/services/wager"
)

// NewRouter constructs the chi router with all API endpoints registered.
func NewRouter(accounts *account.Service, engine *wager.Engine) http.Handler {
	h := NewHandler(accounts, engine)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/register", h.RegisterHandler)
	r.Get("/user/{userId}/balance", h.GetBalanceHandler)
	r.Post("/user/{userId}/deposit", h.DepositHandler)
	r.Get("/user/{userId}/ledger", h.GetLedgerHandler)

	r.Post("/bets", h.CreateBetHandler)
	r.Get("/bets/{betId}", h.GetBetHandler)
	r.Post("/bets/{betId}/join", h.JoinBetHandler)
	r.Post("/bets/{betId}/close", h.CloseBetHandler)
	r.Post("/bets/{betId}/settle", h.SettleBetHandler)

	r.Post("/games", h.CreateGameHandler)
	r.Get("/games/{gameId}", h.GetGameHandler)
	r.Post("/games/{gameId}/lines/{lineIndex}/join", h.JoinLineHandler)
	r.Post("/games/{gameId}/close", h.CloseGameHandler)
	r.Post("/games/{gameId}/settle", h.SettleGameHandler)

	return r
}
