// Package service implements the reservation lifecycle manager.  It sits
// between the HTTP handlers and the store, enforcing validation, running the
// best-fit table assignment and closing the check-then-write race by
// retrying conditional inserts that lose to a concurrent booking.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/iliyamo/foodcourt-table-reservation/internal/catalog"
	"github.com/iliyamo/foodcourt-table-reservation/internal/metrics"
	"github.com/iliyamo/foodcourt-table-reservation/internal/model"
	"github.com/iliyamo/foodcourt-table-reservation/internal/queue"
	"github.com/iliyamo/foodcourt-table-reservation/internal/repository"
	"github.com/iliyamo/foodcourt-table-reservation/internal/utils"
)

// ErrValidation marks a create request with missing or malformed fields.
// The wrapped detail names the offending field; handlers translate the
// whole class into an HTTP 400.
var ErrValidation = errors.New("invalid reservation request")

// idRetryMax bounds regeneration attempts when a freshly generated public
// handle collides with an existing row.  With 32^10 possible handles one
// retry is already rare; three exhausted retries indicate something is
// seriously wrong with the store.
const idRetryMax = 3

// ReservationStore is the persistence contract the lifecycle manager runs
// against.  *repository.ReservationRepo is the production implementation;
// tests substitute an in-memory store with the same conditional-insert
// semantics.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	HeldTables(ctx context.Context, date, timeSlot string) (map[uint32]struct{}, error)
	ListActive(ctx context.Context) ([]model.Reservation, error)
	Search(ctx context.Context, query string) ([]model.Reservation, error)
	GetByReservationID(ctx context.Context, reservationID string) (*model.Reservation, error)
	Cancel(ctx context.Context, reservationID string) (*model.Reservation, error)
}

// CreateRequest carries the caller-supplied fields of a booking.  The
// optional owning user is passed separately because it comes from the
// verified identity, never from the request body.
type CreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Contact     string `json:"contact" validate:"required"`
	PeopleCount uint32 `json:"peopleCount" validate:"required,gte=1"`
	Date        string `json:"date" validate:"required"`
	TimeSlot    string `json:"timeSlot" validate:"required"`
}

// ReservationService orchestrates create, list, search and cancel against
// the store.  All methods are safe for concurrent use.
type ReservationService struct {
	store    ReservationStore
	catalog  *catalog.Catalog
	log      *zerolog.Logger
	validate *validator.Validate
	// assignRetryMax bounds how many times a create retries after losing a
	// table race before surfacing the slot as fully booked.
	assignRetryMax int
	// publish sends a reservation event to the broker; overridable in tests.
	publish func(ctx context.Context, log *zerolog.Logger, ev queue.ReservationEvent) error
}

// NewReservationService constructs a ReservationService.  assignRetryMax
// values below one are raised to one so a create always gets at least a
// single attempt.
func NewReservationService(store ReservationStore, cat *catalog.Catalog, log *zerolog.Logger, assignRetryMax int) *ReservationService {
	if store == nil || cat == nil || log == nil {
		panic("nil dependency passed to NewReservationService")
	}
	if assignRetryMax < 1 {
		assignRetryMax = 1
	}
	return &ReservationService{
		store:          store,
		catalog:        cat,
		log:            log,
		validate:       validator.New(),
		assignRetryMax: assignRetryMax,
		publish:        publishReservationEvent,
	}
}

// Create validates the request, assigns the best-fit free table for the
// requested slot and persists a new Active reservation.  The availability
// read and the insert are separate store operations, so a concurrent create
// can take the chosen table in between; the store reports that as
// repository.ErrTableTaken and Create retries with the conflicting table
// excluded, up to assignRetryMax times.  A failed create never leaves a
// persisted row.
func (s *ReservationService) Create(ctx context.Context, userID *uint64, req CreateRequest) (*model.Reservation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Tables known to be contested from lost races; excluded from
	// subsequent assignment rounds on top of the fresh availability read.
	excluded := make(map[uint32]struct{})

	for attempt := 1; ; attempt++ {
		held, err := s.store.HeldTables(ctx, req.Date, req.TimeSlot)
		if err != nil {
			return nil, err
		}
		for id := range excluded {
			held[id] = struct{}{}
		}

		table, err := s.catalog.Assign(req.PeopleCount, held)
		if err != nil {
			if errors.Is(err, catalog.ErrAllTablesBooked) {
				metrics.FullyBookedRejections.Inc()
			}
			return nil, err
		}

		res := &model.Reservation{
			UserID:      userID,
			Name:        req.Name,
			Contact:     req.Contact,
			PeopleCount: req.PeopleCount,
			Date:        req.Date,
			TimeSlot:    req.TimeSlot,
			TableNumber: table.ID,
			Status:      model.StatusActive,
		}

		err = s.insertWithFreshID(ctx, res)
		if err == nil {
			metrics.ReservationsCreated.Inc()
			s.log.Info().
				Str("reservation_id", res.ReservationID).
				Uint32("table", res.TableNumber).
				Uint32("people", res.PeopleCount).
				Str("date", res.Date).
				Str("slot", res.TimeSlot).
				Msg("reservation created")
			s.emitEvent(queue.EventReservationBooked, res)
			return res, nil
		}
		if errors.Is(err, repository.ErrTableTaken) {
			// Lost the race for this table; mark it and reassign.
			metrics.AssignmentConflicts.Inc()
			excluded[table.ID] = struct{}{}
			if attempt >= s.assignRetryMax {
				s.log.Warn().
					Str("date", req.Date).
					Str("slot", req.TimeSlot).
					Int("attempts", attempt).
					Msg("assignment retries exhausted")
				metrics.FullyBookedRejections.Inc()
				return nil, catalog.ErrAllTablesBooked
			}
			continue
		}
		return nil, err
	}
}

// insertWithFreshID generates a public handle and inserts the reservation,
// regenerating the handle on the rare store-level collision.
func (s *ReservationService) insertWithFreshID(ctx context.Context, res *model.Reservation) error {
	var err error
	for i := 0; i < idRetryMax; i++ {
		res.ReservationID, err = utils.NewReservationID()
		if err != nil {
			return err
		}
		err = s.store.Create(ctx, res)
		if !errors.Is(err, repository.ErrDuplicateReservationID) {
			return err
		}
		s.log.Warn().Str("reservation_id", res.ReservationID).Msg("reservation id collision, regenerating")
	}
	return err
}

// ListActive returns the shared booking sheet: every Active reservation
// ordered by date then time slot.  Visibility filtering, if any, is the
// caller's concern.
func (s *ReservationService) ListActive(ctx context.Context) ([]model.Reservation, error) {
	return s.store.ListActive(ctx)
}

// Search returns reservations of any status whose public handle or guest
// name matches the query as a case-insensitive substring.  Read-only.
func (s *ReservationService) Search(ctx context.Context, query string) ([]model.Reservation, error) {
	return s.store.Search(ctx, query)
}

// Cancel transitions a reservation to Cancelled, freeing its table for the
// slot.  Possession of the public handle is the only authorization required
// (guests book without accounts and manage the booking by its code), so
// every cancellation is audit-logged with whatever identity the caller
// presented.  repository.ErrNotFound is returned for unknown handles.
func (s *ReservationService) Cancel(ctx context.Context, callerID *uint64, reservationID string) (*model.Reservation, error) {
	res, err := s.store.Cancel(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	metrics.ReservationsCancelled.Inc()
	evt := s.log.Info().
		Str("reservation_id", res.ReservationID).
		Uint32("table", res.TableNumber).
		Str("date", res.Date).
		Str("slot", res.TimeSlot)
	if callerID != nil {
		evt = evt.Uint64("caller_user_id", *callerID)
	} else {
		evt = evt.Str("caller_user_id", "guest")
	}
	evt.Msg("reservation cancelled")
	s.emitEvent(queue.EventReservationCancelled, res)
	return res, nil
}

// emitEvent publishes a reservation event without blocking the request.
// Broker outages must never fail a booking, so errors are logged inside the
// publisher and dropped here.
func (s *ReservationService) emitEvent(eventType string, res *model.Reservation) {
	ev := queue.NewReservationEvent(eventType, res)
	go func() {
		_ = s.publish(context.Background(), s.log, ev)
	}()
}
