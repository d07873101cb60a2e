// Package metrics defines the Prometheus instruments for the hub, the HTTP
// surface, and command translation, all under the armhub namespace.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "armhub"

// NewRegistry returns a registry pre-loaded with the Go runtime and process
// collectors. Every instrument in this package registers against one of
// these; nothing here touches the global default registry.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the registry over HTTP. Scrape errors are counted on the
// same registry rather than logged.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
