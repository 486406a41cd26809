package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "collabhub",
		Subsystem: "realtime",
		Name:      "connected_clients",
		Help:      "Number of websocket subscribers currently connected.",
	})

	publishedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collabhub",
		Subsystem: "realtime",
		Name:      "events_published_total",
		Help:      "Row change events published to the hub.",
	}, []string{"table", "event_type"})

	droppedClients = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collabhub",
		Subsystem: "realtime",
		Name:      "dropped_clients_total",
		Help:      "Subscribers disconnected because their send buffer was full.",
	})
)
