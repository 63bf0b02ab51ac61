// Package catalog holds the fixed pool of physical tables available in the
// food court and the assignment algorithm that maps a party to one of them.
// The pool is loaded once at process start and is never mutated afterwards,
// so it can be shared across goroutines without locking.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Table describes a physical table in the seating area.
//
// Fields:
//  ID       - small positive identifier, unique within the pool.
//  Capacity - number of seats at the table.
type Table struct {
	ID       uint32 `json:"id"`
	Capacity uint32 `json:"capacity"`
}

// Catalog is the ordered set of tables the assignment algorithm draws from.
// Tables are kept sorted by (capacity, id) so assignment can scan them in
// best-fit order without re-sorting per request.
type Catalog struct {
	tables []Table
}

// defaultLayout mirrors the seating plan of the food court: three two-seat
// tables, three four-seat tables, two six-seat tables, one eight and one ten.
var defaultLayout = []uint32{2, 2, 2, 4, 4, 4, 6, 6, 8, 10}

// Default returns the catalog built from the standard food-court layout.
func Default() *Catalog {
	return fromCapacities(defaultLayout)
}

// Parse builds a catalog from a comma-separated list of table capacities,
// e.g. "2,2,2,4,4,4,6,6,8,10".  Table IDs are assigned 1..n in list order.
// An empty string yields the default layout.  Invalid or non-positive
// entries return an error so a bad TABLE_LAYOUT is caught at startup.
func Parse(layout string) (*Catalog, error) {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		return Default(), nil
	}
	parts := strings.Split(layout, ",")
	caps := make([]uint32, 0, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("table layout entry %d is invalid: %q", i+1, p)
		}
		caps = append(caps, uint32(n))
	}
	return fromCapacities(caps), nil
}

// fromCapacities assigns IDs in declaration order, then sorts the working
// slice into best-fit scan order.
func fromCapacities(caps []uint32) *Catalog {
	tables := make([]Table, 0, len(caps))
	for i, cp := range caps {
		tables = append(tables, Table{ID: uint32(i + 1), Capacity: cp})
	}
	sort.SliceStable(tables, func(a, b int) bool {
		if tables[a].Capacity != tables[b].Capacity {
			return tables[a].Capacity < tables[b].Capacity
		}
		return tables[a].ID < tables[b].ID
	})
	return &Catalog{tables: tables}
}

// Size returns the number of tables in the pool.
func (c *Catalog) Size() int { return len(c.tables) }

// Tables returns a copy of the pool in best-fit order.  The copy keeps the
// internal slice immutable from the caller's point of view.
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	copy(out, c.tables)
	return out
}

// MaxCapacity returns the seat count of the largest table, or zero for an
// empty catalog.
func (c *Catalog) MaxCapacity() uint32 {
	var max uint32
	for _, t := range c.tables {
		if t.Capacity > max {
			max = t.Capacity
		}
	}
	return max
}
