package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal         = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tripshare", Name: "searches_total", Help: "Total trip searches served"})
	BookingsTotal         = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tripshare", Name: "bookings_total", Help: "Total bookings submitted"})
	TripsPublished        = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tripshare", Name: "trips_published_total", Help: "Total trips published"})
	ActiveSessions        = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "tripshare", Name: "active_sessions", Help: "Sessions created minus sessions closed"})
	SeatDecrementFailures = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tripshare", Name: "seat_decrement_failures_total", Help: "Seat ledger decrements that failed after a booking was persisted"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripshare", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripshare",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
