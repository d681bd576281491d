// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecipesCreatedTotal counts recipes created.
	RecipesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	// ListToggleTotal counts favorite, cart and follow changes.
	ListToggleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_list_toggle_total",
			Help: "Total number of favorite, shopping cart and subscription changes",
		},
		[]string{"list", "action", "outcome"},
	)

	// ShoppingListExportsTotal counts shopping list downloads by format.
	ShoppingListExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Total number of shopping list exports",
		},
		[]string{"format"},
	)
)

// RecordRequest records one handled HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordToggle records a list change; err decides the outcome label.
func RecordToggle(list, action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ListToggleTotal.WithLabelValues(list, action, outcome).Inc()
}
