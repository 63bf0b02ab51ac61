package model

import "time"

// Reservation statuses.  Active is the only status that holds a table for
// availability purposes.  Completed exists in the schema for a future
// sweep but no operation currently transitions into it.
const (
	StatusActive    = "Active"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)

// Reservation records a party holding a table for a specific date and time
// slot.  The JSON field names match the wire format the food-court frontend
// already consumes.  Date and TimeSlot are opaque labels compared by exact
// string equality; no timezone normalization or interval logic applies.
//
// Fields:
//  ID            - surrogate primary key (reservations.id).
//  ReservationID - public, human-shareable handle (RES-...).
//  UserID        - owning user, nil for guest bookings.
//  Name          - display name captured at booking time, kept for guests too.
//  Contact       - phone or email captured at booking time.
//  PeopleCount   - party size, at least one.
//  Date          - opaque calendar-date label as supplied by the caller.
//  TimeSlot      - opaque slot label such as "12:00".
//  TableNumber   - table assigned at creation; immutable afterwards.
//  Status        - Active, Cancelled or Completed.
//  CreatedAt     - creation timestamp assigned by the store.
//  UpdatedAt     - last update timestamp assigned by the store.
type Reservation struct {
	ID            uint64    `json:"-"`
	ReservationID string    `json:"reservationId"`
	UserID        *uint64   `json:"user,omitempty"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	PeopleCount   uint32    `json:"peopleCount"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	TableNumber   uint32    `json:"tableNumber"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
