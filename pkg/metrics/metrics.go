package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carzy", Name: "bookings_created_total", Help: "Bookings created, by payment status"},
		[]string{"payment_status"},
	)
	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carzy", Name: "booking_transitions_total", Help: "Booking state transitions"},
		[]string{"to_status"},
	)
	GatewayFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "carzy", Name: "gateway_failures_total", Help: "Payment gateway call failures"},
	)
	PenaltiesIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carzy", Name: "penalties_issued_total", Help: "Penalties created, by reason"},
		[]string{"reason"},
	)
	RefundsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carzy", Name: "refunds_issued_total", Help: "Refunds created, by reason"},
		[]string{"reason"},
	)
)
