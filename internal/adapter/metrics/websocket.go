package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebSocketMetrics holds Prometheus metrics for peer connections and fan-out.
type WebSocketMetrics struct {
	ActiveConnections prometheus.Gauge
	MessagesBroadcast prometheus.Counter
	HeartbeatsSent    prometheus.Counter
	SlowClientEvicted prometheus.Counter
}

// NewWebSocketMetrics creates and registers WebSocket metrics on the given registry.
func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		MessagesBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_broadcast_total",
			Help:      "Total number of Envelopes fanned out to peers.",
		}),
		HeartbeatsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "heartbeats_sent_total",
			Help:      "Total number of heartbeat Envelopes broadcast.",
		}),
		SlowClientEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "slow_clients_evicted_total",
			Help:      "Total number of peers evicted because their send buffer was full or closed.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.MessagesBroadcast, m.HeartbeatsSent, m.SlowClientEvicted)
	return m
}
