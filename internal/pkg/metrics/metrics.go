package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

type Metrics struct {
	BookingsCreated        prometheus.Counter
	BookingTransitions     *prometheus.CounterVec
	AvailabilityChecks     *prometheus.CounterVec
	NotificationsPublished *prometheus.CounterVec
	NotificationsConsumed  *prometheus.CounterVec
	OutboxDispatched       *prometheus.CounterVec
}

// New registers the collectors on reg. Each process owns its registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Number of bookings created",
		}),
		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Booking state transitions by kind and outcome",
		}, []string{"transition", "result"}),
		AvailabilityChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_checks_total",
			Help:      "Event availability checks by result",
		}, []string{"result"}),
		NotificationsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_published_total",
			Help:      "Notification publish attempts by event type and result",
		}, []string{"event_type", "result"}),
		NotificationsConsumed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_consumed_total",
			Help:      "Notification deliveries handled by the consumer",
		}, []string{"event_type", "result"}),
		OutboxDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_dispatched_total",
			Help:      "Outbox rows processed by the dispatcher",
		}, []string{"result"}),
	}
}

// NewNop returns collectors registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
