package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/betterbets/betterbets/internal/services/account"
	"github.com/betterbets/betterbets/internal/services/wager"
)

// NewServer creates and returns a configured *http.Server for the API.
func NewServer(port uint16, accounts *account.Service, engine *wager.Engine) *http.Server {
	mux := NewRouter(accounts, engine)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
