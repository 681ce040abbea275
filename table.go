package bikeshare

import (
	"tidbyt.dev/bikeshare/model"
)

// Table holds the filtered trips of one session iteration.
type Table struct {
	Criteria model.Criteria
	Schema   model.Schema
	Trips    []*model.Trip

	release func() error
}

func (t *Table) Len() int {
	return len(t.Trips)
}

// Reports whether the source file had the given column.
func (t *Table) Has(column string) bool {
	return t.Schema.Has(column)
}

// Up to n trips starting at position offset. Returns nil once offset
// is past the end.
func (t *Table) Rows(offset, n int) []*model.Trip {
	if offset < 0 || offset >= len(t.Trips) || n <= 0 {
		return nil
	}
	end := offset + n
	if end > len(t.Trips) {
		end = len(t.Trips)
	}
	return t.Trips[offset:end]
}

// Drops the table's backing storage. Safe to call more than once.
func (t *Table) Release() error {
	if t.release == nil {
		return nil
	}
	release := t.release
	t.release = nil
	t.Trips = nil
	return release()
}
