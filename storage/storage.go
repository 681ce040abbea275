package storage

import (
	"errors"
	"time"

	"tidbyt.dev/bikeshare/model"
)

var ErrTableNotFound = errors.New("table not found")

// Scratch storage for loaded trip logs. Each load gets its own named
// table, which is deleted when the session iteration that loaded it
// is done.
type Storage interface {
	// Gets a writer for the table with the given name. Any
	// existing table with the same name is replaced.
	GetWriter(table string) (TripWriter, error)

	// Gets a reader for the table with the given name.
	GetReader(table string) (TripReader, error)

	// Removes a table and all its trips.
	DeleteTable(table string) error
}

// Writes the trips of a single trip log.
//
// BeginTrips() and EndTrips() are called before and after all calls
// to WriteTrip(), allowing transactions/batching/whathaveyou.
type TripWriter interface {
	WriteSchema(schema model.Schema) error
	BeginTrips() error
	WriteTrip(trip *model.Trip) error
	EndTrips() error
	Close() error
}

type TripReader interface {
	// Columns present in the source file.
	Schema() (model.Schema, error)

	// Trips matching the filter, in source file order.
	Trips(filter TripFilter) ([]*model.Trip, error)
}

// Filter for Trips()
type TripFilter struct {
	// Limit results to a month, 1-12. Pass 0 to include all
	// months.
	Month int

	// Limit results to a day of week, given as "Monday",
	// "Tuesday", etc. Pass "" to include all days.
	DayOfWeek string
}

func (f TripFilter) Match(t *model.Trip) bool {
	if f.Month != 0 && t.Month != f.Month {
		return false
	}
	if f.DayOfWeek != "" && t.DayOfWeek != f.DayOfWeek {
		return false
	}
	return true
}

// Timestamps are stored as text in the SQL backends.
const timestampLayout = time.RFC3339Nano

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timestampLayout, s)
}
