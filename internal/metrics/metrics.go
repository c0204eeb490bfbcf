// Package metrics provides Prometheus metrics for the transport client.
//
// Key metrics:
//   - Inbound frame counts by type, plus malformed/unknown frames
//   - Deduplicated message replays
//   - Outbound frame counts by type and rejected sends
//   - Reconnect attempts and current connection state
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversa_frames_received_total",
			Help: "Inbound frames by type",
		},
		[]string{"type"},
	)

	MalformedFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversa_malformed_frames_total",
			Help: "Inbound frames dropped as unparseable",
		},
	)

	MessagesDeduped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversa_messages_deduped_total",
			Help: "Replayed messages rejected by the dedup set",
		},
	)

	FramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversa_frames_sent_total",
			Help: "Outbound frames by type",
		},
		[]string{"type"},
	)

	SendsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversa_sends_rejected_total",
			Help: "Send attempts rejected because the connection was not open",
		},
	)

	Reconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversa_reconnects_total",
			Help: "Scheduled reconnect attempts",
		},
	)

	ConnectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversa_connection_state",
			Help: "Current connection state (0 idle, 1 connecting, 2 open, 3 closing, 4 closed)",
		},
	)
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
