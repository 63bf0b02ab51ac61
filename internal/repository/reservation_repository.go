package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/foodcourt-table-reservation/internal/model"
)

// mysqlDupEntry is the MySQL error number raised when an INSERT violates a
// unique index (ER_DUP_ENTRY).
const mysqlDupEntry = 1062

// Names of the unique indexes on the reservations table.  They appear in the
// ER_DUP_ENTRY message and let us tell a lost table race apart from a public
// identifier collision.
const (
	idxActiveTable   = "uniq_active_table"
	idxReservationID = "uniq_reservation_id"
)

// reservationColumns is the SELECT list shared by every query that scans a
// full reservation row.
const reservationColumns = `id, reservation_id, user_id, name, contact, people_count,
	   reserved_date, time_slot, table_number, status, created_at, updated_at`

// ReservationRepo provides data access to the reservations table.  It is the
// single source of truth for table occupancy: the uniq_active_table index on
// (reserved_date, time_slot, table_number, slot_guard) guarantees at most one
// Active reservation per table per slot, turning concurrent double-bookings
// into detectable insert conflicts.  slot_guard is 1 while a reservation is
// Active and NULL otherwise; NULLs never collide, so cancelled history does
// not block the table.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need direct access, e.g.
// the migration runner at startup.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// Create inserts a new Active reservation.  The write is conditional: when
// another Active reservation already holds the same (date, time slot, table),
// MySQL rejects the row and ErrTableTaken is returned so the caller can retry
// assignment with a different table.  A collision on the public handle is
// reported as ErrDuplicateReservationID.  On success the generated primary
// key and store-assigned timestamps are populated on res.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
			   (reservation_id, user_id, name, contact, people_count, reserved_date, time_slot, table_number, status, slot_guard)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	result, err := r.db.ExecContext(ctx, q,
		res.ReservationID, nullableID(res.UserID), res.Name, res.Contact,
		res.PeopleCount, res.Date, res.TimeSlot, res.TableNumber, model.StatusActive,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDupEntry {
			if strings.Contains(myErr.Message, idxReservationID) {
				return ErrDuplicateReservationID
			}
			if strings.Contains(myErr.Message, idxActiveTable) {
				return ErrTableTaken
			}
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Status = model.StatusActive
	// Query back the row to pick up the DB-assigned timestamps.
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, sel, res.ID), res)
}

// HeldTables returns the IDs of all tables held by an Active reservation for
// the given (date, time slot) pair.  Comparison is exact string equality on
// the opaque labels; no side effects.
func (r *ReservationRepo) HeldTables(ctx context.Context, date, timeSlot string) (map[uint32]struct{}, error) {
	const q = `SELECT table_number FROM reservations
			   WHERE reserved_date = ? AND time_slot = ? AND status = ?`
	rows, err := r.db.QueryContext(ctx, q, date, timeSlot, model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	held := make(map[uint32]struct{})
	for rows.Next() {
		var tbl uint32
		if err := rows.Scan(&tbl); err != nil {
			return nil, err
		}
		held[tbl] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return held, nil
}

// ListActive returns every Active reservation ordered by date then time slot
// ascending.  This is the shared booking sheet: all callers see the same
// global view, access control being the concern of the layer in front.
func (r *ReservationRepo) ListActive(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
			   WHERE status = ?
			   ORDER BY reserved_date ASC, time_slot ASC, table_number ASC`
	return r.queryMany(ctx, q, model.StatusActive)
}

// Search returns all reservations, regardless of status, whose public handle
// or guest name contains the query as a case-insensitive substring.  The
// reservations table uses a case-insensitive collation, so LIKE matches
// without explicit folding.  LIKE metacharacters in the query are escaped so
// they match literally.
func (r *ReservationRepo) Search(ctx context.Context, query string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
			   WHERE reservation_id LIKE CONCAT('%', ?, '%')
				  OR name LIKE CONCAT('%', ?, '%')
			   ORDER BY reserved_date ASC, time_slot ASC`
	esc := escapeLike(query)
	return r.queryMany(ctx, q, esc, esc)
}

// escapeLike escapes the LIKE pattern metacharacters so user input matches
// as a literal substring.  Backslash is MySQL's default LIKE escape
// character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetByReservationID looks up a single reservation by its public handle.
// ErrNotFound is returned when no such row exists.
func (r *ReservationRepo) GetByReservationID(ctx context.Context, reservationID string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = ?`
	var res model.Reservation
	if err := r.scanOne(r.db.QueryRowContext(ctx, q, reservationID), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Cancel flips an Active reservation to Cancelled and releases its slot
// guard so the table becomes assignable again.  The UPDATE is conditional on
// the current status: cancelling an already-Cancelled reservation is a no-op
// that still returns the record, and a Completed row is left untouched
// rather than pulled back to Cancelled.  ErrNotFound is returned when the
// public handle does not exist.
func (r *ReservationRepo) Cancel(ctx context.Context, reservationID string) (*model.Reservation, error) {
	const upd = `UPDATE reservations
				 SET status = ?, slot_guard = NULL
				 WHERE reservation_id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, upd, model.StatusCancelled, reservationID, model.StatusActive)
	if err != nil {
		return nil, err
	}
	if _, err := result.RowsAffected(); err != nil {
		return nil, err
	}
	// Zero affected rows can mean unknown handle or a non-Active status; the
	// follow-up read answers both and returns the record to the caller.
	return r.GetByReservationID(ctx, reservationID)
}

// queryMany runs a query returning full reservation rows and scans them all.
func (r *ReservationRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		var userID sql.NullInt64
		if err := rows.Scan(
			&res.ID, &res.ReservationID, &userID, &res.Name, &res.Contact,
			&res.PeopleCount, &res.Date, &res.TimeSlot, &res.TableNumber,
			&res.Status, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			res.UserID = &uid
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanOne scans a single reservation row into res.
func (r *ReservationRepo) scanOne(row *sql.Row, res *model.Reservation) error {
	var userID sql.NullInt64
	if err := row.Scan(
		&res.ID, &res.ReservationID, &userID, &res.Name, &res.Contact,
		&res.PeopleCount, &res.Date, &res.TimeSlot, &res.TableNumber,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		res.UserID = &uid
	}
	return nil
}

// nullableID converts an optional user reference into a driver-friendly value.
func nullableID(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
