// Package repository implements the durable reservation store on MySQL.
// This file defines sentinel errors shared across the package.  Higher
// layers compare against them with errors.Is to distinguish failure
// scenarios: a missing record, a lost race on a table, or a public
// identifier collision.
package repository

import "errors"

// ErrNotFound is returned when no reservation matches the requested public
// identifier.  Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("reservation not found")

// ErrTableTaken is returned when the conditional insert lost a race: another
// request wrote an Active reservation for the same (date, time slot, table)
// between the availability check and our write.  Callers should retry the
// assignment with the conflicting table excluded.
var ErrTableTaken = errors.New("table already reserved for this slot")

// ErrDuplicateReservationID is returned when the generated public handle
// collides with an existing row.  Callers should regenerate and retry.
var ErrDuplicateReservationID = errors.New("reservation id already exists")
