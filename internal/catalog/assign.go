package catalog

import "errors"

// ErrNoTableFits is returned when no table in the pool can seat the party at
// all.  This is a permanent condition for the given party size, not a
// scheduling conflict.
var ErrNoTableFits = errors.New("no table fits the requested party size")

// ErrAllTablesBooked is returned when every table in the party's best-fit
// capacity class is already held for the requested slot.  A different date
// or time slot may still succeed.
var ErrAllTablesBooked = errors.New("all adequate tables are booked for this slot")

// Assign picks the table for a party using tight-fit assignment: only tables
// of the smallest capacity that still seats everyone are considered, ties
// broken by lowest ID.  held contains the IDs of tables already taken by an
// Active reservation for the slot under consideration.
//
// Larger tables are never handed out as a fallback: once the two-seaters are
// gone, a party of two is turned away rather than parked at a four-top,
// keeping the big tables available for the big parties that have no other
// option.
func (c *Catalog) Assign(peopleCount uint32, held map[uint32]struct{}) (Table, error) {
	if peopleCount == 0 {
		return Table{}, ErrNoTableFits
	}
	// tables is sorted by (capacity, id), so the first adequate entry fixes
	// the best-fit capacity class and its peers follow contiguously.
	var class uint32
	found := false
	for _, t := range c.tables {
		if t.Capacity < peopleCount {
			continue
		}
		if !found {
			class = t.Capacity
			found = true
		}
		if t.Capacity != class {
			break
		}
		if _, taken := held[t.ID]; !taken {
			return t, nil
		}
	}
	if !found {
		return Table{}, ErrNoTableFits
	}
	return Table{}, ErrAllTablesBooked
}
