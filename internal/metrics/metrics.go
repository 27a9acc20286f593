// Package metrics holds the Prometheus counters of game activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tictactoe"

// Outcomes of a move or jump request.
const (
	ResultApplied  = "applied"
	ResultIgnored  = "ignored"
	ResultRejected = "rejected"
)

// Metrics - counters updated by the game manager.
type Metrics struct {
	// GamesCreated counts sessions that started a game.
	GamesCreated prometheus.Counter

	// Moves counts move requests. Labels: result
	Moves *prometheus.CounterVec

	// Jumps counts history jumps. Labels: result
	Jumps *prometheus.CounterVec

	// Resets counts games started over.
	Resets prometheus.Counter

	// Wins counts moves that completed a line. Labels: winner
	Wins *prometheus.CounterVec
}

// New - registers the counters with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GamesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Total number of games started for new sessions",
		}),
		Moves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Total number of move requests by result",
		}, []string{"result"}),
		Jumps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jumps_total",
			Help:      "Total number of history jumps by result",
		}, []string{"result"}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of game resets",
		}),
		Wins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_total",
			Help:      "Total number of won games by winning mark",
		}, []string{"winner"}),
	}
}

func (that *Metrics) GameCreated() {
	that.GamesCreated.Inc()
}

func (that *Metrics) MoveMade(result, winner string) {
	that.Moves.WithLabelValues(result).Inc()
	if result == ResultApplied && winner != "" {
		that.Wins.WithLabelValues(winner).Inc()
	}
}

func (that *Metrics) Jumped(result string) {
	that.Jumps.WithLabelValues(result).Inc()
}

func (that *Metrics) GameReset() {
	that.Resets.Inc()
}
