package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	depositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betterbets_deposits_total",
		Help: "Number of successful deposits.",
	})

	betsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betterbets_bets_created_total",
		Help: "Number of bets created.",
	})

	gamesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betterbets_games_created_total",
		Help: "Number of games created.",
	})

	stakesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betterbets_stakes_total",
		Help: "Number of accepted stakes across bets and games.",
	})

	settlementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betterbets_settlements_total",
		Help: "Number of settled bets and games.",
	})
)
