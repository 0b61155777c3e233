package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_rooms_created_total",
		Help: "Rooms created since process start.",
	})
	AnswersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_answers_submitted_total",
		Help: "Answers accepted into an open round.",
	})
	RoundsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_rounds_resolved_total",
		Help: "Rounds that reached resolution.",
	})
)

// RegisterActiveRooms exposes the live room count as a gauge backed by the
// registry itself.
func RegisterActiveRooms(count func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "trivia_active_rooms",
		Help: "Rooms currently held in the in-memory registry.",
	}, func() float64 { return float64(count()) })
}

func Handler() http.Handler {
	return promhttp.Handler()
}
