// Package metrics exposes Prometheus counters for the reservation core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationsCreated counts successfully persisted reservations.
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_reservations_created_total",
		Help: "Number of reservations successfully created.",
	})

	// ReservationsCancelled counts cancellations, including repeats on an
	// already-cancelled handle.
	ReservationsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_reservations_cancelled_total",
		Help: "Number of reservation cancellations processed.",
	})

	// AssignmentConflicts counts conditional inserts that lost a race for a
	// table and were retried with that table excluded.
	AssignmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_assignment_conflicts_total",
		Help: "Number of table assignment races detected and retried.",
	})

	// FullyBookedRejections counts create requests turned away because every
	// adequate table was held for the requested slot.
	FullyBookedRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_fully_booked_rejections_total",
		Help: "Number of create requests rejected because the slot was fully booked.",
	})
)
