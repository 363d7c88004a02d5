package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbershop_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barbershop_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Bookings counts booking decisions: booked, conflict, outside_hours,
	// past, rejected.
	Bookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbershop_bookings_total",
			Help: "Booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	CalendarSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barbershop_calendar_syncs_total",
			Help: "Calendar sync requests by result.",
		},
		[]string{"result"},
	)

	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barbershop_reminders_sent_total",
			Help: "Day-before reminders delivered.",
		},
	)
)
