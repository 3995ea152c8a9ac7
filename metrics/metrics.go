package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Connections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drawduel_connections_total",
		Help: "Successful player registrations, joins and reconnects both.",
	})

	RegistrationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drawduel_registration_errors_total",
		Help: "Rejected registrations by reason code.",
	}, []string{"reason"})

	ClientEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drawduel_client_events_total",
		Help: "Client events accepted past the connection boundary.",
	})

	BroadcastBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drawduel_broadcast_batches_total",
		Help: "Serialized event batches fanned out to subscribers.",
	})

	RoomResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drawduel_room_resets_total",
		Help: "Room resets, both empty-room teardowns and invariant bailouts.",
	})
)

// Handler exposes the default registry for a /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
