// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled API requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paisatrack_http_requests_total",
		Help: "Total HTTP requests handled, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	// GatewayRequests counts calls to the payment gateway by operation.
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paisatrack_gateway_requests_total",
		Help: "Total payment gateway calls, by operation and outcome.",
	}, []string{"operation", "outcome"})

	// SchedulerRuns counts background job executions.
	SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paisatrack_scheduler_runs_total",
		Help: "Total scheduler job runs, by job and outcome.",
	}, []string{"job", "outcome"})

	// ScrapedRates tracks how many FD rates the last scrape stored.
	ScrapedRates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "paisatrack_scraped_rates",
		Help: "Number of interest rates stored by the most recent scrape.",
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
