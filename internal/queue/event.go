// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/foodcourt-table-reservation/internal/model"
)

// Event types published on the reservation.events queue.
const (
	EventReservationBooked    = "reservation.booked"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published when a reservation is booked or cancelled.
// It carries a full snapshot so downstream consumers can log, notify or feed
// analytics without querying the primary database.
type ReservationEvent struct {
	EventID       string  `json:"event_id"`
	Type          string  `json:"type"`
	ReservationID string  `json:"reservation_id"`
	UserID        *uint64 `json:"user_id,omitempty"`
	Name          string  `json:"name"`
	Contact       string  `json:"contact"`
	PeopleCount   uint32  `json:"people_count"`
	Date          string  `json:"date"`
	TimeSlot      string  `json:"time_slot"`
	TableNumber   uint32  `json:"table_number"`
	Status        string  `json:"status"`
	EmittedAt     string  `json:"emitted_at"`
}

// NewReservationEvent builds an event of the given type from a reservation
// snapshot, stamping a fresh event ID and emission time.
func NewReservationEvent(eventType string, res *model.Reservation) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: res.ReservationID,
		UserID:        res.UserID,
		Name:          res.Name,
		Contact:       res.Contact,
		PeopleCount:   res.PeopleCount,
		Date:          res.Date,
		TimeSlot:      res.TimeSlot,
		TableNumber:   res.TableNumber,
		Status:        res.Status,
		EmittedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
