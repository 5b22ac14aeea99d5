package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the collector's registry in the Prometheus exposition
// format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.metrics.Registry(), promhttp.HandlerOpts{})
}
