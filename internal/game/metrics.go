package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricGamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizzlio_games_created_total",
		Help: "Number of game rooms created.",
	})
	metricActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quizzlio_active_rooms",
		Help: "Number of rooms currently live.",
	})
	metricAnswersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizzlio_answers_submitted_total",
		Help: "Number of answers accepted.",
	})
	metricQuestionTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizzlio_question_timeouts_total",
		Help: "Number of questions resolved by deadline instead of all players answering.",
	})
)
